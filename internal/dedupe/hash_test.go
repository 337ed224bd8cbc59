package dedupe

import (
	"encoding/hex"
	"testing"
)

func TestHashAlgorithmFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    HashAlgo
		wantErr bool
	}{
		{"", DefaultHash, false},
		{"sha256", HashSHA256, false},
		{"SHA512", HashSHA512, false},
		{"sha3-256", HashSHA3_256, false},
		{"blake2b-256", HashBLAKE2b256, false},
		{"md5", "", true},
	}
	for _, tt := range tests {
		got, err := HashAlgorithmFromString(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("HashAlgorithmFromString(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("HashAlgorithmFromString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllHashAlgosDistinct(t *testing.T) {
	seen := make(map[string]string)
	for _, name := range SupportedHashAlgorithms() {
		h := HashAlgo(name).New()
		h.Write([]byte("godupes"))
		digest := hex.EncodeToString(h.Sum(nil))
		if other, ok := seen[digest]; ok {
			t.Fatalf("%s and %s produce the same digest", name, other)
		}
		seen[digest] = name
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 algorithms, got %d", len(seen))
	}
}

func TestSHA256KnownDigest(t *testing.T) {
	h := HashSHA256.New()
	h.Write([]byte("abc"))
	got := hex.EncodeToString(h.Sum(nil))
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("sha256(abc) = %s, want %s", got, want)
	}
}
