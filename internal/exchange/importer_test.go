package exchange

import (
	"errors"
	"strings"
	"testing"
)

func backupWith(names ...string) string {
	var sb strings.Builder
	sb.WriteString(`{"version":"1.0","diagrams":[`)
	for i, n := range names {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"id":"` + n + `","name":"` + n + `","code":"pie","theme":"light","createdAt":1,"updatedAt":2}`)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func TestProcessFilesMixedBatch(t *testing.T) {
	files := []File{
		{Name: "one.mmd", Reader: strings.NewReader("graph TD\n A-->B")},
		{Name: "broken.json", Reader: strings.NewReader("{definitely not json")},
		{Name: "two.mmd", Reader: strings.NewReader("pie")},
	}
	res := ProcessFiles(files)

	// One corrupt file must not sink the rest of the batch.
	if !res.Success {
		t.Error("batch with valid files should succeed")
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}
	if len(res.Errors) != 1 {
		t.Errorf("errors = %v, want exactly one", res.Errors)
	}
	if len(res.Diagrams) != 2 || res.Diagrams[0].Name != "one" || res.Diagrams[1].Name != "two" {
		t.Errorf("diagrams out of order: %+v", res.Diagrams)
	}
}

func TestProcessFilesUnsupportedExtension(t *testing.T) {
	res := ProcessFiles([]File{
		{Name: "image.png", Reader: strings.NewReader("binary")},
	})
	if res.Success {
		t.Error("unsupported-only batch must not succeed")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "image.png") {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestProcessFilesBackupDispatch(t *testing.T) {
	res := ProcessFiles([]File{
		{Name: "Backup.JSON", Reader: strings.NewReader(backupWith("a", "b"))},
	})
	if !res.Success || res.Imported != 2 {
		t.Fatalf("success=%v imported=%d", res.Success, res.Imported)
	}
}

func TestProcessFilesResultOrderMatchesInput(t *testing.T) {
	res := ProcessFiles([]File{
		{Name: "backup.json", Reader: strings.NewReader(backupWith("b1", "b2"))},
		{Name: "single.mmd", Reader: strings.NewReader("gantt")},
	})
	if len(res.Diagrams) != 3 {
		t.Fatalf("diagrams = %d", len(res.Diagrams))
	}
	// Strict input order: first file's records before the second's, so the
	// caller can deterministically open the first imported diagram.
	wantNames := []string{"b1", "b2", "single"}
	for i, want := range wantNames {
		if res.Diagrams[i].Name != want {
			t.Errorf("diagrams[%d].Name = %q, want %q", i, res.Diagrams[i].Name, want)
		}
	}
}

func TestProcessFilesReadFailure(t *testing.T) {
	res := ProcessFiles([]File{
		{Name: "ok.mmd", Reader: strings.NewReader("pie")},
		{Name: "cursed.json", Reader: failingReader{}},
	})
	if !res.Success || res.Imported != 1 {
		t.Errorf("success=%v imported=%d", res.Success, res.Imported)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "cursed.json") {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestProcessFilesEmptyBatch(t *testing.T) {
	res := ProcessFiles(nil)
	if res.Success || res.Imported != 0 {
		t.Errorf("empty batch: %+v", res)
	}
	if res.Errors == nil || res.Diagrams == nil {
		t.Error("aggregate slices should be empty, not nil")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device wandered off")
}
