package crypto

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// TxSigner signs marketplace transactions with the operator's
// secp256k1 key.
type TxSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
}

// NewTxSigner creates a TxSigner from a hex-encoded private key and the
// target chain ID.
func NewTxSigner(privateKeyHex string, chainID int64) (*TxSigner, error) {
	keyHex := strings.TrimPrefix(privateKeyHex, "0x")
	pk, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("crypto/txsigner: invalid private key: %w", err)
	}
	return &TxSigner{
		privateKey: pk,
		address:    ethcrypto.PubkeyToAddress(pk.PublicKey),
		chainID:    big.NewInt(chainID),
	}, nil
}

// Address returns the address derived from the operator key.
func (s *TxSigner) Address() common.Address {
	return s.address
}

// SignTx signs a transaction with the EIP-155 signer for the
// configured chain.
func (s *TxSigner) SignTx(tx *types.Transaction) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("crypto/txsigner: signing: %w", err)
	}
	return signed, nil
}
