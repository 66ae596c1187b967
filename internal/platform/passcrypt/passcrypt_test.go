package passcrypt

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	c := New()
	blob, err := c.Encrypt("JUGAHE0000", []byte("12345"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	plaintext, err := c.Decrypt("JUGAHE0000", blob)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if !bytes.Equal(plaintext, []byte("12345")) {
		t.Fatalf("round trip mismatch: got %q", plaintext)
	}
}

func TestWrongPassphraseYieldsNilResult(t *testing.T) {
	c := New()
	blob, err := c.Encrypt("correct", []byte("payload"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	plaintext, err := c.Decrypt("wrong", blob)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got: %v", err)
	}
	if plaintext != nil {
		t.Fatalf("expected nil plaintext on mismatch, got %q", plaintext)
	}
}

func TestMalformedBlob(t *testing.T) {
	c := New()
	for _, blob := range [][]byte{nil, {0x00}, bytes.Repeat([]byte{0xFF}, 8)} {
		if _, err := c.Decrypt("any", blob); !errors.Is(err, ErrMalformedBlob) {
			t.Fatalf("expected ErrMalformedBlob for %v, got %v", blob, err)
		}
	}
}

func TestDistinctBlobsPerEncryption(t *testing.T) {
	c := New()
	first, err := c.Encrypt("same", []byte("12345"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	second, err := c.Encrypt("same", []byte("12345"))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatalf("expected salted blobs to differ")
	}
}
