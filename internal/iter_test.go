package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"A": "1", "B": "2"}
	b := map[string]string{"C": "3"}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]string{"A": "1", "B": "2", "C": "3"}, all)

	// Later sequences win on key collisions when collected.
	c := map[string]string{"A": "9"}
	all = maps.Collect(IterSeq2Concat(maps.All(a), maps.All(c)))
	assert.Equal("9", all["A"])

	// Early stop.
	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)

	assert.Empty(maps.Collect(IterSeq2Concat[string, string]()))
}
