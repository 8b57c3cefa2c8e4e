package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-insights/internal/aggregate"
	"github.com/dvloznov/statement-insights/internal/domain"
)

func sampleResult() *domain.ParseResult {
	return &domain.ParseResult{
		TransactionsByCardholder: map[string][]domain.Transaction{
			"JANE DOE": {
				{SaleDate: "01/03", PostDate: "01/04", Description: "GROCERY MART", Amount: 54.10},
			},
		},
		Summary: map[string]any{
			"bank_name":   "Chase",
			"new_balance": 950.25,
		},
	}
}

func TestResultPath(t *testing.T) {
	s, err := NewFS(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		source string
		want   string
	}{
		{"statement1.txt", "statement1_parsed.json"},
		{"statement2.pdf", "statement2_parsed.json"},
		{"nested/dir/statement3.txt", "statement3_parsed.json"},
		{"noext", "noext_parsed.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filepath.Base(s.ResultPath(tt.source)), "source %q", tt.source)
	}
}

func TestWriteReadResult(t *testing.T) {
	s, err := NewFS(t.TempDir())
	require.NoError(t, err)

	want := sampleResult()
	require.NoError(t, s.WriteResult("statement1.txt", want))

	got, err := s.ReadResult("statement1.txt")
	require.NoError(t, err)
	assert.Equal(t, want.TransactionsByCardholder, got.TransactionsByCardholder)
	assert.Equal(t, "Chase", got.Summary["bank_name"])
}

func TestWriteReadCombined(t *testing.T) {
	s, err := NewFS(t.TempDir())
	require.NoError(t, err)

	want := aggregate.Combine([]aggregate.StatementDocument{
		{Filename: "statement1.txt", Result: sampleResult()},
	})
	require.NoError(t, s.WriteCombined(want))

	got, err := s.ReadCombined()
	require.NoError(t, err)
	assert.Equal(t, want.CombinedSummary, got.CombinedSummary)
	assert.Len(t, got.IndividualStatements, 1)
}

func TestListResults(t *testing.T) {
	s, err := NewFS(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.WriteResult("statement2.txt", sampleResult()))
	require.NoError(t, s.WriteResult("statement1.txt", sampleResult()))
	require.NoError(t, s.WriteCombined(aggregate.Combine(nil)))

	names, err := s.ListResults()
	require.NoError(t, err)
	// Sorted, and the combined report is not a per-document result.
	assert.Equal(t, []string{"statement1_parsed.json", "statement2_parsed.json"}, names)
}

func TestReadResultMissing(t *testing.T) {
	s, err := NewFS(t.TempDir())
	require.NoError(t, err)

	_, err = s.ReadResult("absent.txt")
	assert.Error(t, err)
}

func TestFilenameFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://bucket/folder/statement1.txt", "statement1.txt"},
		{"gs://bucket/statement1.txt", "statement1.txt"},
		{"gs://bucket", "bucket"},
		{"local/dir/statement1.txt", "statement1.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FilenameFromURI(tt.uri), "uri %q", tt.uri)
	}
}

func TestSplitGCSURI(t *testing.T) {
	bucket, object, err := splitGCSURI("gs://my-bucket/path/to/file.txt")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "path/to/file.txt", object)

	_, _, err = splitGCSURI("http://example.com/file.txt")
	assert.Error(t, err)

	_, _, err = splitGCSURI("gs://bucket-only")
	assert.Error(t, err)
}
