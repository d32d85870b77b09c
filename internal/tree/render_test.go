package tree

import "testing"

func TestSprint(t *testing.T) {
	root := Build([]string{
		"src/a.ts",
		"src/b.ts",
		"docs/readme.md",
	})
	got := Sprint("acme/widget", root.Children)
	want := "/acme/widget\n" +
		"├── docs/\n" +
		"│   └── readme.md\n" +
		"└── src/\n" +
		"    ├── a.ts\n" +
		"    └── b.ts\n"
	if got != want {
		t.Errorf("Sprint output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSprintEmptyTree(t *testing.T) {
	got := Sprint("acme/widget", nil)
	if got != "/acme/widget\n" {
		t.Errorf("Sprint(nil) = %q, want header only", got)
	}
}
