package chain

// marketABI is the read/write surface of the marketplace contract.
// The marketplace is itself the ERC-721 contract, so ownerOf and
// tokenURI live at the same address.
const marketABI = `[
  {"type":"function","name":"getMarketItem","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[
    {"name":"tokenId","type":"uint256"},
    {"name":"seller","type":"address"},
    {"name":"owner","type":"address"},
    {"name":"ethPrice","type":"uint256"},
    {"name":"usdcPrice","type":"uint256"},
    {"name":"usdtPrice","type":"uint256"},
    {"name":"sold","type":"bool"},
    {"name":"listedAt","type":"uint256"},
    {"name":"royaltyPercentage","type":"uint256"},
    {"name":"royaltyRecipient","type":"address"}
  ]},
  {"type":"function","name":"totalTokens","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"totalSold","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"getListingPrice","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"getTokenListingFee","stateMutability":"view","inputs":[{"name":"token","type":"address"}],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"type":"address"}]},
  {"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"type":"string"}]},
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]},
  {"type":"function","name":"paused","stateMutability":"view","inputs":[],"outputs":[{"type":"bool"}]},
  {"type":"function","name":"blacklisted","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"type":"bool"}]},
  {"type":"function","name":"emergencyWithdrawStatus","stateMutability":"view","inputs":[],"outputs":[{"name":"enabled","type":"bool"},{"name":"readyAt","type":"uint256"}]},

  {"type":"function","name":"createToken","stateMutability":"payable","inputs":[
    {"name":"uri","type":"string"},
    {"name":"ethPrice","type":"uint256"},
    {"name":"usdcPrice","type":"uint256"},
    {"name":"usdtPrice","type":"uint256"},
    {"name":"royaltyPercentage","type":"uint256"},
    {"name":"royaltyRecipient","type":"address"}
  ],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"updateItemPrices","stateMutability":"nonpayable","inputs":[
    {"name":"tokenId","type":"uint256"},
    {"name":"ethPrice","type":"uint256"},
    {"name":"usdcPrice","type":"uint256"},
    {"name":"usdtPrice","type":"uint256"}
  ],"outputs":[]},
  {"type":"function","name":"resellToken","stateMutability":"payable","inputs":[
    {"name":"tokenId","type":"uint256"},
    {"name":"ethPrice","type":"uint256"},
    {"name":"usdcPrice","type":"uint256"},
    {"name":"usdtPrice","type":"uint256"}
  ],"outputs":[]},
  {"type":"function","name":"createMarketSaleETH","stateMutability":"payable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"createMarketSaleToken","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"token","type":"address"}],"outputs":[]},

  {"type":"function","name":"pause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"unpause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"setUserBlacklist","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"},{"name":"blocked","type":"bool"}],"outputs":[]},
  {"type":"function","name":"setTokenBlacklist","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"blocked","type":"bool"}],"outputs":[]},
  {"type":"function","name":"updateListingPrice","stateMutability":"nonpayable","inputs":[{"name":"price","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"updatePlatformFee","stateMutability":"nonpayable","inputs":[{"name":"feeBps","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"updateFeeRecipient","stateMutability":"nonpayable","inputs":[{"name":"recipient","type":"address"}],"outputs":[]},
  {"type":"function","name":"initiateEmergencyWithdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"cancelEmergencyWithdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"executeEmergencyWithdraw","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

// erc20ABI covers the slice of the token standard the gateway needs
// for allowance-based settlement.
const erc20ABI = `[
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]}
]`
