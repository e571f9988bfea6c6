package tasks

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	src := "package main\n" +
		"// TODO refactor parser\n" +
		"x := 1 //FIXME: off by one\r\n" +
		"// - [ ] write docs\n" +
		"// - [x] ship it\n" +
		"/* TODO not a line comment */\n" +
		"// todo lowercase is ignored\n"
	got := Scan("main.go", src)
	want := []Task{
		{File: "main.go", Line: 1, Tag: TagTodo, Text: "refactor parser"},
		{File: "main.go", Line: 2, Tag: TagFixme, Text: ": off by one"},
		{File: "main.go", Line: 3, Tag: TagCheck, Text: "write docs"},
		{File: "main.go", Line: 4, Tag: TagCheck, Text: "ship it", Completed: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Scan mismatch (-want +got):\n%s", diff)
	}
}

func TestScanEmpty(t *testing.T) {
	require.Empty(t, Scan("a.go", ""))
	require.Empty(t, Scan("a.go", "func main() {}\n"))
}

func TestBoardToggle(t *testing.T) {
	b := NewBoard()
	b.Replace([]Task{
		{File: "b.go", Line: 3, Tag: TagTodo, Text: "later"},
		{File: "a.go", Line: 9, Tag: TagCheck, Text: "done", Completed: true},
		{File: "a.go", Line: 1, Tag: TagCheck, Text: "first"},
	})
	items := b.Items()
	require.Equal(t, "a.go", items[0].File)
	require.Equal(t, 1, items[0].Line)
	require.Equal(t, "b.go", items[2].File)

	got, ok := b.Toggle("a.go", 1)
	require.True(t, ok)
	require.True(t, got.Completed)
	require.Equal(t, Counts{Total: 3, Open: 1, Done: 2}, b.Counts())

	got, ok = b.Toggle("a.go", 1)
	require.True(t, ok)
	require.False(t, got.Completed)

	_, ok = b.Toggle("a.go", 42)
	require.False(t, ok)
}

func TestBoardItemsIsACopy(t *testing.T) {
	b := NewBoard()
	b.Replace([]Task{{File: "a.go", Line: 0, Tag: TagTodo}})
	items := b.Items()
	items[0].Completed = true
	require.False(t, b.Items()[0].Completed)
}

func TestBoardConcurrentToggle(t *testing.T) {
	b := NewBoard()
	b.Replace([]Task{{File: "a.go", Line: 0, Tag: TagCheck}})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Toggle("a.go", 0)
		}()
	}
	wg.Wait()
	require.False(t, b.Items()[0].Completed, "an even number of toggles restores the state")
}
