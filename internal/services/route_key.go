package services

import (
	"encoding/binary"
	"fleet-charging-service/internal/domain"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// RouteKey identifies a solved tour by matrix content and origin index.
// Two matrices that compare Equal produce the same key.
func RouteKey(m *domain.DistanceMatrix, origin int) string {
	d := xxhash.New()

	var buf [8]byte
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}

	n := m.N()
	write(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			write(m.At(i, j))
		}
	}

	return "route:" + strconv.FormatUint(d.Sum64(), 16) + ":" + strconv.Itoa(origin)
}
