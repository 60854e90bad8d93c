package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a built-in scene name is not registered
var ErrUnknownScene = errors.New("unknown scene")

// Scene types
const (
	TypeBuiltin = "builtin"
	TypeFile    = "file"
)

const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene description (file type only)
	Variant     string `json:"variant"`     // Variant name (optional)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

type builtinScene struct {
	info  SceneInfo
	build func() *Scene
}

var builtinScenes = []builtinScene{
	{
		info:  builtinInfo("default", "Default Scene", "Three large spheres in a field of small random spheres"),
		build: NewDefaultScene,
	},
	{
		info:  builtinInfo("spheres", "Spheres", "Diffuse, hollow glass and fuzzy metal spheres on a checkered ground"),
		build: NewSpheresScene,
	},
	{
		info:  builtinInfo("cornell", "Cornell Box", "Cornell box built from boxes, lit only by a ceiling panel"),
		build: NewCornellScene,
	},
	{
		info:  builtinInfo("boxes", "Boxes", "One axis-aligned box per material kind"),
		build: NewBoxesScene,
	},
	{
		info:  builtinInfo("empty", "Empty", "No shapes, sky only"),
		build: NewEmptyScene,
	},
}

func builtinInfo(id, name, description string) SceneInfo {
	return SceneInfo{
		ID:          id,
		Name:        name,
		DisplayName: name,
		Description: description,
		Group:       builtinGroup,
		Type:        TypeBuiltin,
	}
}

// Lookup builds the built-in scene with the given ID
func Lookup(id string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, id, strings.Join(Names(), ", "))
}

// Names returns the IDs of all built-in scenes
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		names = append(names, b.info.ID)
	}
	return names
}

// ListSceneFiles scans dir for scene description files and returns their metadata.
// A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []SceneInfo{}, nil
		}
		return nil, fmt.Errorf("while reading scenes directory: %w", err)
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("while scanning scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, fmt.Errorf("while parsing metadata for %s: %w", filePath, err)
		}
		scenes = append(scenes, sceneInfo)
	}

	// Sort scenes by display name
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the leading comment block of a scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	// Fallback values from the filename
	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("file:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "Scene Files",
		Type:        TypeFile,
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Scene":
			sceneInfo.Name = value
		case "Variant":
			sceneInfo.Variant = value
		case "Description":
			sceneInfo.Description = value
		case "Group":
			sceneInfo.Group = value
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and file scenes, grouped by category.
// Built-in scenes come first, then other groups alphabetically.
func ListAllScenes(dir string) ([]SceneGroup, error) {
	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}

	var groups []SceneGroup
	builtins := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		builtins = append(builtins, b.info)
	}
	groups = append(groups, SceneGroup{Name: builtinGroup, Scenes: builtins})

	groupMap := make(map[string][]SceneInfo)
	for _, info := range fileScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		groupNames = append(groupNames, groupName)
	}
	sort.Strings(groupNames)

	for _, groupName := range groupNames {
		groups = append(groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
