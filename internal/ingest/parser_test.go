package ingest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatten renders rows as ordered key/value pairs for comparison.
func flatten(rows []Row) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		pairs := make([]string, 0, r.Len()*2)
		for _, k := range r.Keys() {
			pairs = append(pairs, k, r.Value(k))
		}
		out = append(out, pairs)
	}
	return out
}

func TestFormatFromFilename(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"cards.csv":         FormatCSV,
		"Cards.CSV":         FormatCSV,
		"deck.json":         FormatJSON,
		"notes.txt":         FormatTXT,
		"export.tsv":        FormatTXT,
		"archive.tar.json":  FormatJSON,
		"README":            FormatTXT,
		"image.png":         FormatTXT,
		"trailing-dot.":     FormatTXT,
		"csv":               FormatTXT,
		"folder.csv/x.json": FormatJSON,
	}

	for name, want := range tests {
		assert.Equal(t, want, FormatFromFilename(name), name)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat(" TSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatTXT, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want [][]string
	}{
		{
			name: "header and rows",
			raw:  "q,a\nWhat is 2+2?,4\nCapital of France?,Paris",
			want: [][]string{
				{"q", "What is 2+2?", "a", "4"},
				{"q", "Capital of France?", "a", "Paris"},
			},
		},
		{
			name: "trims headers and values",
			raw:  " front , back \n  one ,  two  \n",
			want: [][]string{{"front", "one", "back", "two"}},
		},
		{
			name: "blank lines discarded",
			raw:  "\n\nq,a\n\n1,2\n   \n3,4\n",
			want: [][]string{{"q", "1", "a", "2"}, {"q", "3", "a", "4"}},
		},
		{
			name: "short rows padded and extras dropped",
			raw:  "a,b,c\n1\n1,2,3,4,5",
			want: [][]string{
				{"a", "1", "b", "", "c", ""},
				{"a", "1", "b", "2", "c", "3"},
			},
		},
		{
			name: "crlf line endings",
			raw:  "q,a\r\nx,y\r\n",
			want: [][]string{{"q", "x", "a", "y"}},
		},
		{
			name: "quoted fields keep commas",
			raw:  "q,a\n\"Name, full\",\"Ada Lovelace\"",
			want: [][]string{{"q", "Name, full", "a", "Ada Lovelace"}},
		},
		{
			name: "stray quote stays on its line",
			raw:  "q,a\n\"To be\" or not,Hamlet\nCapital of France?,Paris\nWhat is 2+2?,4",
			want: [][]string{
				{"q", `"To be" or not`, "a", "Hamlet"},
				{"q", "Capital of France?", "a", "Paris"},
				{"q", "What is 2+2?", "a", "4"},
			},
		},
		{
			name: "unterminated quote does not swallow later lines",
			raw:  "q,a\n\"open,1\n2,3",
			want: [][]string{
				{"q", `"open`, "a", "1"},
				{"q", "2", "a", "3"},
			},
		},
		{
			name: "comma-only line is a row",
			raw:  "q,a\n,\n1,2",
			want: [][]string{
				{"q", "", "a", ""},
				{"q", "1", "a", "2"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rows, err := Parse(tc.raw, FormatCSV)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, flatten(rows)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCSVShape(t *testing.T) {
	t.Parallel()

	raw := "h1,h2,h3\n1,2,3\n4,5,6\n7,8,9\n10,11,12\n"
	rows, err := Parse(raw, FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, []string{"h1", "h2", "h3"}, r.Keys())
	}
}

func TestParseCSVNoData(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "\n \n", "q,a\n", "q,a\n\n\n"} {
		_, err := Parse(raw, FormatCSV)
		assert.ErrorIs(t, err, ErrNoDataParsed, "%q", raw)
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want [][]string
	}{
		{
			name: "array of objects",
			raw:  `[{"term":"Go","definition":"A language"},{"term":"Chan","definition":"A pipe"}]`,
			want: [][]string{
				{"term", "Go", "definition", "A language"},
				{"term", "Chan", "definition", "A pipe"},
			},
		},
		{
			name: "single object wrapped",
			raw:  `{"z":"last","a":"first"}`,
			want: [][]string{{"z", "last", "a", "first"}},
		},
		{
			name: "scalar rendering",
			raw:  `[{"s":"  padded  ","n":1.50,"b":true,"nil":null,"obj":{"k": [1, 2]},"arr":[ "x" ]}]`,
			want: [][]string{{"s", "padded", "n", "1.50", "b", "true", "nil", "", "obj", `{"k":[1,2]}`, "arr", `["x"]`}},
		},
		{
			name: "duplicate key keeps first position",
			raw:  `{"a":"1","b":"2","a":"3"}`,
			want: [][]string{{"a", "3", "b", "2"}},
		},
		{
			name: "empty object",
			raw:  `[{}]`,
			want: [][]string{{}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rows, err := Parse(tc.raw, FormatJSON)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, flatten(rows)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseJSONSingleObjectEqualsWrappedArray(t *testing.T) {
	t.Parallel()

	single, err := Parse(`{"q":"x","a":"y"}`, FormatJSON)
	require.NoError(t, err)
	wrapped, err := Parse(`[{"q":"x","a":"y"}]`, FormatJSON)
	require.NoError(t, err)

	require.Len(t, single, 1)
	if diff := cmp.Diff(flatten(wrapped), flatten(single)); diff != "" {
		t.Errorf("single object mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSONErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty array", `[]`, ErrNoDataParsed},
		{"empty input", ``, ErrParseFailure},
		{"malformed", `[{"q":}]`, ErrParseFailure},
		{"unterminated", `[{"q":"x"}`, ErrParseFailure},
		{"scalar top level", `"hello"`, ErrParseFailure},
		{"number element", `[1,2]`, ErrParseFailure},
		{"string element", `[{"q":"x"},"y"]`, ErrParseFailure},
		{"trailing data", `{"q":"x"} {"q":"y"}`, ErrParseFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tc.raw, FormatJSON)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseTXT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want [][]string
	}{
		{
			name: "tab pair",
			raw:  "Hello\tWorld",
			want: [][]string{{"question", "Hello", "answer", "World"}},
		},
		{
			name: "parts untrimmed and extra tabs ignored",
			raw:  " Hello \t World \textra",
			want: [][]string{{"question", " Hello ", "answer", " World "}},
		},
		{
			name: "plain lines indexed among non-blank lines",
			raw:  "first\n\nsecond\r\nQ\tA\nthird",
			want: [][]string{
				{"line", "first", "index", "0"},
				{"line", "second", "index", "1"},
				{"question", "Q", "answer", "A"},
				{"line", "third", "index", "3"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rows, err := Parse(tc.raw, FormatTXT)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, flatten(rows)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseTXTNoData(t *testing.T) {
	t.Parallel()

	_, err := Parse("\n  \n\t\n", FormatTXT)
	assert.ErrorIs(t, err, ErrNoDataParsed)
}

func TestParseUnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := Parse("a,b", Format("xlsx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
