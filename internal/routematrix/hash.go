package routematrix

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"orrery/internal/model"
)

// EdgesHash computes SHA-256 over a canonical JSON encoding of the edge
// set: fields in a fixed order, edges sorted by (From, To, Type), so the
// hash only changes when the edges themselves change, independent of
// map/slice iteration order upstream.
func EdgesHash(edges []model.TransferEdge) string {
	sorted := make([]model.TransferEdge, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].From != sorted[j].From {
			return sorted[i].From < sorted[j].From
		}
		if sorted[i].To != sorted[j].To {
			return sorted[i].To < sorted[j].To
		}
		return sorted[i].Type < sorted[j].Type
	})

	var b strings.Builder
	b.WriteByte('[')
	for i, e := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"from":%s,"to":%s,"dv_m_s":%s,"tof_s":%s,"type":%d}`,
			jsonString(e.From), jsonString(e.To),
			formatFloat(e.DvMS), formatFloat(e.TofS), int(e.Type))
	}
	b.WriteByte(']')

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func jsonString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
