package domain_test

import (
	"testing"

	"oficina/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/stretchr/testify/assert"
)

func TestIDListColumn(t *testing.T) {
	ids := domain.IDList{10, 20}
	value, err := ids.Value()
	assert.Nil(t, err)

	parsed := domain.IDList{}
	assert.Nil(t, parsed.Scan(value))
	assert.Equal(t, ids, parsed)

	// database drivers may hand back []byte instead of string
	parsed = domain.IDList{}
	assert.Nil(t, parsed.Scan([]byte(value.(string))))
	assert.Equal(t, ids, parsed)

	assert.NotNil(t, parsed.Scan(123))

	assert.True(t, ids.Contains(types.ID(10)))
	assert.False(t, ids.Contains(types.ID(30)))
}

func TestQuantidadeMapColumn(t *testing.T) {
	quantidades := domain.QuantidadeMap{"10": 2.5, "20": 100}
	value, err := quantidades.Value()
	assert.Nil(t, err)

	parsed := domain.QuantidadeMap{}
	assert.Nil(t, parsed.Scan(value))
	assert.Equal(t, quantidades, parsed)
}
