package contenthash_test

import (
	"testing"

	"github.com/vartahub/newsdesk/internal/contenthash"
)

func TestSum_NormalizesCaseAndWhitespace(t *testing.T) {
	a := contenthash.Sum("Flood in Riverside District")
	b := contenthash.Sum("  flood in riverside district  ")

	if a != b {
		t.Errorf("expected equal hashes for normalized-equal inputs, got %q and %q", a, b)
	}
}

func TestSum_DistinctContent(t *testing.T) {
	a := contenthash.Sum("flood in riverside district")
	b := contenthash.Sum("fire in riverside district")

	if a == b {
		t.Error("expected different hashes for different content")
	}
}

func TestSum_HexLength(t *testing.T) {
	h := contenthash.Sum("anything")
	if len(h) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(h))
	}
}

func TestSum_InnerWhitespaceSignificant(t *testing.T) {
	a := contenthash.Sum("flood in riverside")
	b := contenthash.Sum("flood  in  riverside")

	if a == b {
		t.Error("inner whitespace should not be collapsed")
	}
}
