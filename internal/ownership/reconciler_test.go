package ownership

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mintbay/marketgate/internal/domain"
)

var (
	alice  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob    = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	market = common.HexToAddress("0x00000000000000000000000000000000000000fe")
)

func TestOwns(t *testing.T) {
	cases := []struct {
		name      string
		custodial common.Address
		actual    common.Address
		addr      common.Address
		want      bool
	}{
		{"both match", alice, alice, alice, true},
		{"custodial only", alice, market, alice, true},
		{"actual only", market, alice, alice, true},
		{"neither", market, bob, alice, false},
		{"zero address item", common.Address{}, common.Address{}, alice, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := domain.MarketItem{
				CustodialOwner: tc.custodial,
				ActualOwner:    tc.actual,
			}
			if got := Owns(item, tc.addr); got != tc.want {
				t.Errorf("Owns = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsListed(t *testing.T) {
	listed := domain.MarketItem{CustodialOwner: market}
	if !IsListed(listed, market) {
		t.Error("escrowed item not reported as listed")
	}

	held := domain.MarketItem{CustodialOwner: alice}
	if IsListed(held, market) {
		t.Error("privately held item reported as listed")
	}
}
