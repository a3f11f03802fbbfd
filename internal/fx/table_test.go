package fx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticTableRate(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, 34.50, table.Rate("USD"))
	assert.Equal(t, 34.50, table.Rate("usd"))
	assert.Equal(t, 1.0, table.Rate("TRY"))
	assert.Equal(t, 1.0, table.Rate("XXX"), "unknown currency falls back to 1.0")
	assert.Equal(t, 1.0, table.Rate(""))
}

func TestValidCode(t *testing.T) {
	assert.True(t, ValidCode("TRY"))
	assert.True(t, ValidCode("USD"))
	assert.False(t, ValidCode("TL"))
	assert.False(t, ValidCode(""))
}
