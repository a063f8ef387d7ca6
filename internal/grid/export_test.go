package grid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCSV(t *testing.T) {
	tbl := NewTable("t",
		[]string{"id", "REMARKS"},
		[][]string{
			{"1", `hit "post"`},
			{"2", "none"},
		})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))

	want := "\"id\",\"REMARKS\"\r\n" +
		"\"1\",\"hit \"\"post\"\"\"\r\n" +
		"\"2\",\"none\"\r\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmptyTable(t *testing.T) {
	tbl := NewTable("t", []string{"id"}, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "\"id\"\r\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	tbl := sampleTable()

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, tbl))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("accidents_2024")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"id", "BARANGAY", "VICTIMS", "MONTH"}, rows[0])
	assert.Equal(t, "Poblacion", rows[1][1])
}

func TestSearcherDebounces(t *testing.T) {
	got := make(chan string, 10)
	s := NewSearcher(func(q string) { got <- q })
	s.SetDelay(20 * time.Millisecond)
	defer s.Stop()

	for _, q := range []string{"p", "po", "pob", "pobl"} {
		s.Input(q)
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case q := <-got:
		assert.Equal(t, "pobl", q)
	case <-time.After(time.Second):
		t.Fatal("debounced search never fired")
	}

	select {
	case q := <-got:
		t.Fatalf("unexpected extra callback %q", q)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestSearcherImmediateDelay(t *testing.T) {
	var calls []string
	s := NewSearcher(func(q string) { calls = append(calls, q) })
	s.SetDelay(0)

	s.Input("a")
	s.Input("ab")
	assert.Equal(t, []string{"a", "ab"}, calls)
}

func TestSearcherStop(t *testing.T) {
	fired := make(chan struct{}, 1)
	s := NewSearcher(func(string) { fired <- struct{}{} })
	s.SetDelay(10 * time.Millisecond)

	s.Input("x")
	s.Stop()

	select {
	case <-fired:
		t.Fatal("stopped searcher must not fire")
	case <-time.After(40 * time.Millisecond):
	}
}

func TestSearcherQueriesMatchTable(t *testing.T) {
	tbl := sampleTable()
	var matches []int
	s := NewSearcher(func(q string) { matches = tbl.Search(q) })
	s.SetDelay(0)

	s.Input("bagumbayan")
	assert.Equal(t, []int{2}, matches)
	assert.True(t, strings.EqualFold("Bagumbayan", tbl.Rows[2][1]))
}
