package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvillard/immogest/internal/money"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Zero", input: "0", want: "0.00"},
		{name: "Small", input: "7.5", want: "7.50"},
		{name: "Thousands", input: "1234.56", want: "1,234.56"},
		{name: "Millions", input: "1234567.8", want: "1,234,567.80"},
		{name: "ExactThousand", input: "1000", want: "1,000.00"},
		{name: "Negative", input: "-98765.43", want: "-98,765.43"},
		{name: "Rounding", input: "12.345", want: "12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.Equal(t, tt.want, money.Format(d))
		})
	}
}

func TestParseEuropean(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Simple", input: "650,00", want: "650"},
		{name: "Negative", input: "-588,74", want: "-588.74"},
		{name: "ThousandSeparator", input: "1.234,56", want: "1234.56"},
		{name: "Spaces", input: "1 234,56", want: "1234.56"},
		{name: "Millions", input: "-1.234.567,89", want: "-1234567.89"},
		{name: "Garbage", input: "abc", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ParseEuropean(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}
