package binary

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

const (
	checksumSuffix  = ".sha256"
	signatureSuffix = ".asc"

	armorHeader = "-----BEGIN PGP"
)

// Verifier selects which checks run against a downloaded artifact.
// The zero value verifies nothing.
type Verifier struct {
	// Checksum compares the artifact against <url>.sha256.
	Checksum bool
	// KeyringPath, when set, checks <url>.asc against this OpenPGP keyring.
	KeyringPath string
}

// Enabled reports whether any verification is configured.
func (v Verifier) Enabled() bool {
	return v.Checksum || v.KeyringPath != ""
}

// verifySHA256 compares the file's digest with the entry for name in sums.
func verifySHA256(binaryPath string, sums []byte, name string) error {
	want, err := expectedDigest(sums, name)
	if err != nil {
		return err
	}

	got, err := fileDigest(binaryPath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	if !strings.EqualFold(got, want) {
		return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
	}
	return nil
}

// verifyGPG checks sig, armored or binary, as a detached signature over the
// file and returns the signing key id.
func verifyGPG(binaryPath string, sig []byte, keyringPath string) (string, error) {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return "", err
	}

	f, err := os.Open(binaryPath)
	if err != nil {
		return "", fmt.Errorf("open binary: %w", err)
	}
	defer f.Close()

	check := openpgp.CheckDetachedSignature
	if isArmored(sig) {
		check = openpgp.CheckArmoredDetachedSignature
	}

	signer, err := check(keyring, f, bytes.NewReader(sig), nil)
	if err != nil {
		return "", fmt.Errorf("verify signature: %w", err)
	}
	return signer.PrimaryKey.KeyIdString(), nil
}

// loadKeyring reads an armored or binary OpenPGP keyring.
func loadKeyring(keyringPath string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(keyringPath)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}

	read := openpgp.ReadKeyRing
	if isArmored(data) {
		read = openpgp.ReadArmoredKeyRing
	}

	keyring, err := read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse keyring %s: %w", keyringPath, err)
	}
	if len(keyring) == 0 {
		return nil, errors.New("keyring is empty")
	}
	return keyring, nil
}

func isArmored(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte(armorHeader))
}

func fileDigest(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// expectedDigest looks name up in a sha256sum listing
// ("<digest>  goss-linux-amd64", optionally "*name" for binary mode). A
// listing holding a single bare digest applies to name.
func expectedDigest(sums []byte, name string) (string, error) {
	var bare []string

	scanner := bufio.NewScanner(bytes.NewReader(sums))
	for scanner.Scan() {
		digest, file, hasFile := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		if digest == "" {
			continue
		}
		file = strings.TrimPrefix(strings.TrimSpace(file), "*")

		switch {
		case !hasFile || file == "":
			bare = append(bare, digest)
		case file == name || path.Base(file) == name:
			return validDigest(digest)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read checksum file: %w", err)
	}

	if len(bare) == 1 {
		return validDigest(bare[0])
	}
	return "", fmt.Errorf("checksum not found for %s", name)
}

func validDigest(digest string) (string, error) {
	if len(digest) != sha256.Size*2 {
		return "", fmt.Errorf("malformed checksum %q", digest)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", fmt.Errorf("malformed checksum %q", digest)
	}
	return digest, nil
}
