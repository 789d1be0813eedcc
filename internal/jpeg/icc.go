package jpeg

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

const (
	iccMarkerTag     = "ICC_PROFILE\x00"
	iccHeaderLen     = 14    // tag + seq + count
	maxChunkDataSize = 65519 // 65535 - 2 (length field) - iccHeaderLen
)

// ExtractICC reassembles an ICC profile from APP2 marker segments.
// markers holds raw APP2 payloads (excluding the marker and length bytes).
// Segments that are not ICC chunks are ignored.
func ExtractICC(markers [][]byte) ([]byte, error) {
	type chunk struct {
		seq  int
		data []byte
	}
	var chunks []chunk
	total := 0

	for _, m := range markers {
		if len(m) < iccHeaderLen || string(m[:12]) != iccMarkerTag {
			continue
		}
		seq, count := int(m[12]), int(m[13])
		if seq == 0 || seq > count {
			return nil, fmt.Errorf("invalid ICC chunk sequence %d/%d", seq, count)
		}
		if total == 0 {
			total = count
		} else if count != total {
			return nil, fmt.Errorf("inconsistent ICC chunk count: %d vs %d", count, total)
		}
		chunks = append(chunks, chunk{seq: seq, data: m[iccHeaderLen:]})
	}

	if len(chunks) == 0 {
		return nil, nil
	}
	if len(chunks) != total {
		return nil, fmt.Errorf("expected %d ICC chunks, found %d", total, len(chunks))
	}

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })

	var buf bytes.Buffer
	for _, c := range chunks {
		buf.Write(c.data)
	}
	return buf.Bytes(), nil
}

// ChunkICC splits an ICC profile into APP2-ready marker payloads
// ("ICC_PROFILE\0" + 1-based sequence + count + profile bytes).
func ChunkICC(profile []byte) ([][]byte, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty ICC profile")
	}

	n := (len(profile) + maxChunkDataSize - 1) / maxChunkDataSize
	if n > 255 {
		return nil, fmt.Errorf("ICC profile too large: needs %d chunks (max 255)", n)
	}

	chunks := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		start := i * maxChunkDataSize
		end := min(start+maxChunkDataSize, len(profile))

		c := make([]byte, 0, iccHeaderLen+end-start)
		c = append(c, iccMarkerTag...)
		c = append(c, byte(i+1), byte(n))
		c = append(c, profile[start:end]...)
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// EmbedICC returns a copy of jpegData with profile written as APP2 segments
// right after the SOI marker and, if present, the leading APP0 (JFIF) segment.
func EmbedICC(jpegData, profile []byte) ([]byte, error) {
	chunks, err := ChunkICC(profile)
	if err != nil {
		return nil, err
	}

	insertAt := -1
	err = walkSegments(jpegData, func(marker byte, offset int, p []byte) error {
		if insertAt >= 0 {
			return nil
		}
		if marker == markerAPP0 {
			insertAt = offset + 4 + len(p)
		} else {
			insertAt = offset
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if insertAt < 0 {
		insertAt = 2
	}

	size := len(jpegData)
	for _, c := range chunks {
		size += 4 + len(c)
	}
	out := make([]byte, 0, size)
	out = append(out, jpegData[:insertAt]...)
	for _, c := range chunks {
		n := len(c) + 2
		out = append(out, 0xFF, markerAPP2, byte(n>>8), byte(n))
		out = append(out, c...)
	}
	out = append(out, jpegData[insertAt:]...)
	return out, nil
}
