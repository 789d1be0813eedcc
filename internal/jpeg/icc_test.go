package jpeg

import (
	"bytes"
	"testing"

	"github.com/mactul/jpeg-turbo-examples/internal/testutil"
)

func TestChunkICCMultipleChunks(t *testing.T) {
	profile := testutil.FakeICC(2*maxChunkDataSize+100, "RGB ", "mntr")

	chunks, err := ChunkICC(profile)
	if err != nil {
		t.Fatalf("ChunkICC: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c)+2 > 0xFFFF {
			t.Errorf("chunk %d does not fit an APP2 segment (%d bytes)", i, len(c))
		}
		if int(c[12]) != i+1 || int(c[13]) != 3 {
			t.Errorf("chunk %d has seq/count %d/%d", i, c[12], c[13])
		}
	}

	// out-of-order chunks and unrelated APP2 payloads are tolerated
	shuffled := [][]byte{chunks[2], []byte("MPF\x00 not icc"), chunks[0], chunks[1]}
	got, err := ExtractICC(shuffled)
	if err != nil {
		t.Fatalf("ExtractICC: %v", err)
	}
	if !bytes.Equal(got, profile) {
		t.Error("reassembled profile differs from the original")
	}
}

func TestExtractICCErrors(t *testing.T) {
	chunks, err := ChunkICC(testutil.FakeICC(maxChunkDataSize+1, "RGB ", "mntr"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractICC(chunks[:1]); err == nil {
		t.Error("missing chunk not reported")
	}

	bad := append([]byte(nil), chunks[0]...)
	bad[12] = 0
	if _, err := ExtractICC([][]byte{bad}); err == nil {
		t.Error("zero sequence number not reported")
	}

	if _, err := ChunkICC(nil); err == nil {
		t.Error("empty profile accepted")
	}
}

func TestEmbedICC(t *testing.T) {
	src := testutil.JPEG(t, 48, 32)
	profile := testutil.FakeICC(3000, "RGB ", "mntr")

	out, err := EmbedICC(src, profile)
	if err != nil {
		t.Fatalf("EmbedICC: %v", err)
	}
	if !testutil.HasJPEGMagic(out) {
		t.Fatal("output is not a valid JPEG")
	}

	info, err := parseHeader(out)
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if !bytes.Equal(info.ICC, profile) {
		t.Errorf("embedded profile not recovered (%d bytes)", len(info.ICC))
	}
	if cfg := testutil.Config(t, out); cfg.Width != 48 || cfg.Height != 32 {
		t.Errorf("image/jpeg reads %dx%d after embedding", cfg.Width, cfg.Height)
	}
}

func TestEmbedICCAfterJFIF(t *testing.T) {
	jfif := segment(markerAPP0, 'J', 'F', 'I', 'F', 0, 1, 1, 0, 0, 1, 0, 1, 0, 0)
	src := syntheticHeader(4, 4, [][2]byte{{1, 0x11}}, jfif)

	out, err := EmbedICC(src, testutil.FakeICC(200, "GRAY", "mntr"))
	if err != nil {
		t.Fatalf("EmbedICC: %v", err)
	}
	if !bytes.Equal(out[:2+len(jfif)], src[:2+len(jfif)]) {
		t.Error("SOI + APP0 prefix was not preserved")
	}
	if out[2+len(jfif)] != 0xFF || out[3+len(jfif)] != markerAPP2 {
		t.Errorf("expected APP2 right after APP0, got 0x%02x%02x", out[2+len(jfif)], out[3+len(jfif)])
	}
}
