package crypto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// A throwaway 32-byte key, not a real account.
const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "hunter2")
	if err != nil {
		t.Fatalf("EncryptKey: %v", err)
	}

	got, err := DecryptKey(blob, "hunter2")
	if err != nil {
		t.Fatalf("DecryptKey: %v", err)
	}
	if got != testKeyHex {
		t.Errorf("round trip = %q, want %q", got, testKeyHex)
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	blob, err := EncryptKey("0x"+testKeyHex, "correct")
	if err != nil {
		t.Fatalf("EncryptKey: %v", err)
	}
	if _, err := DecryptKey(blob, "wrong"); err == nil {
		t.Fatal("expected decryption failure")
	}
}

func TestEncryptKeyRejectsBadInput(t *testing.T) {
	if _, err := EncryptKey(testKeyHex, ""); err == nil {
		t.Error("empty password accepted")
	}
	if _, err := EncryptKey("nothex", "pw"); err == nil {
		t.Error("non-hex key accepted")
	}
	if _, err := EncryptKey("abcd", "pw"); err == nil {
		t.Error("short key accepted")
	}
}

func TestLoadKeyPrefersRawKey(t *testing.T) {
	got, err := LoadKey(KeyConfig{RawPrivateKey: "0x" + testKeyHex})
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if got != testKeyHex {
		t.Errorf("key = %q, want 0x prefix stripped", got)
	}
}

func TestLoadKeyFromEncryptedFile(t *testing.T) {
	blob, err := EncryptKey(testKeyHex, "pw")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "operator.json")
	if err := os.WriteFile(path, blob, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := LoadKey(KeyConfig{EncryptedKeyPath: path, KeyPassword: "pw"})
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if got != testKeyHex {
		t.Errorf("key = %q", got)
	}

	// Missing password is a config error, not a decrypt error.
	_, err = LoadKey(KeyConfig{EncryptedKeyPath: path})
	if err == nil || !strings.Contains(err.Error(), "key_password") {
		t.Errorf("err = %v, want key_password complaint", err)
	}
}

func TestLoadKeyUnconfigured(t *testing.T) {
	if _, err := LoadKey(KeyConfig{}); err == nil {
		t.Fatal("expected an error with no key configured")
	}
}

func TestNewTxSigner(t *testing.T) {
	signer, err := NewTxSigner(testKeyHex, 11155111)
	if err != nil {
		t.Fatalf("NewTxSigner: %v", err)
	}
	if signer.Address() == (common.Address{}) {
		t.Error("zero signer address")
	}
}
