package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"glass_spheres", "Glass Spheres"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParseSceneMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.yaml",
			content: `# Scene: Glass Row
# Variant: Dim
# Description: Three glass spheres
# Group: Glass

spheres: []`,
			expected: SceneInfo{
				ID:          "file:complete_metadata",
				Name:        "Glass Row",
				DisplayName: "Glass Row - Dim",
				Description: "Three glass spheres",
				Group:       "Glass",
				Type:        TypeFile,
				Variant:     "Dim",
			},
		},
		{
			name: "partial_metadata.yaml",
			content: `# Scene: Lamps
spheres: []`,
			expected: SceneInfo{
				ID:          "file:partial_metadata",
				Name:        "Lamps",
				DisplayName: "Lamps",
				Group:       "Scene Files",
				Type:        TypeFile,
			},
		},
		{
			name:    "no_metadata.json",
			content: `{"spheres": []}`,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "Scene Files",
				Type:        TypeFile,
			},
		},
	}

	dir := t.TempDir()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if diff := cmp.Diff(tc.expected, result); diff != "" {
				t.Errorf("ParseSceneMetadata() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":  "# Scene: Bravo\n# Group: Zeta\n",
		"a.yml":   "# Scene: Alpha\n# Group: Zeta\n",
		"c.json":  "{}",
		"x.notes": "# Scene: Ignored\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	groups, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	var names []string
	for _, g := range groups {
		names = append(names, g.Name)
	}
	if diff := cmp.Diff([]string{"Built-in Scenes", "Scene Files", "Zeta"}, names); diff != "" {
		t.Errorf("Group order mismatch (-want +got):\n%s", diff)
	}
	if len(groups[0].Scenes) != len(Names()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(Names()), len(groups[0].Scenes))
	}
	if groups[2].Scenes[0].Name != "Alpha" || groups[2].Scenes[1].Name != "Bravo" {
		t.Errorf("Expected Zeta scenes sorted by name, got %+v", groups[2].Scenes)
	}
}

func TestLookupUnknownScene(t *testing.T) {
	_, err := Lookup("no-such-scene")
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}
