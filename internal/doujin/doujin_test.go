package doujin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"only commas", ",,", []string{}},
		{"whitespace segments", " , ,\t", []string{}},
		{"single value", "Alice", []string{"Alice"}},
		{"two values", "Alice, Bob", []string{"Alice", "Bob"}},
		{"untrimmed values", "  Alice ,Bob  ", []string{"Alice", "Bob"}},
		{"empty middle segment", "Alice,,Bob", []string{"Alice", "Bob"}},
		{"trailing comma", "comedy,", []string{"comedy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.input)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Run("empty means no date", func(t *testing.T) {
		got, err := ParseDate("")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("whitespace means no date", func(t *testing.T) {
		got, err := ParseDate("   ")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2024-01-01")
		assert.NoError(t, err)
		if assert.NotNil(t, got) {
			assert.Equal(t, "2024-01-01", *got)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseDate("not-a-date")
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range day", func(t *testing.T) {
		_, err := ParseDate("2024-02-31")
		assert.Error(t, err)
	})
}

func TestEntryInputValidate(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		in := EntryInput{Title: "Title A", PublishedDate: "2024-01-01"}
		assert.NoError(t, in.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		in := EntryInput{AuthorsText: "Alice"}
		err := in.Validate()
		var ve *ValidationError
		if assert.ErrorAs(t, err, &ve) {
			assert.Equal(t, "title", ve.Fields[0].Field)
		}
	})

	t.Run("bad date format", func(t *testing.T) {
		in := EntryInput{Title: "T", PublishedDate: "01/02/2024"}
		err := in.Validate()
		var ve *ValidationError
		if assert.ErrorAs(t, err, &ve) {
			assert.Equal(t, "publishedDate", ve.Fields[0].Field)
		}
	})
}
