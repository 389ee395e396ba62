// Package scaffold provides content generation for new nyc-db datasets.
package scaffold

// File operations carried by GeneratedFile.
const (
	OpCreate = "create" // standalone file, fully owned by one dataset
	OpAppend = "append" // block spliced onto the end of a shared file
)

// DefaultFieldType is the column type emitted for every field. It is never
// inferred from data.
const DefaultFieldType = "text"

// DatasetSpec contains all information needed to render a dataset's templates.
type DatasetSpec struct {
	Name        string   // snake_case identifier: "rent_roll"
	Header      []string // raw CSV header columns
	Fields      []Field  // one per header column
	IndexColumn string   // column used by the generated index: "bbl"
}

// Field represents one declared schema field.
type Field struct {
	Column      string // raw header column: "unit_count"
	DisplayName string // display case: "UnitCount"
	Type        string // always DefaultFieldType
}

// ArtifactSet is the generated content for one dataset. It is built once and
// never modified afterwards; create and undo both operate on the same set.
type ArtifactSet struct {
	Name       string
	SourcePath string
	Header     []string
	Schema     string
	Transform  string
	IndexSQL   string
	Test       string
	CSVSample  string
}

// GeneratedFile represents a file to be created or modified.
type GeneratedFile struct {
	Path      string // absolute or project-relative path
	Content   string // full content, for OpCreate
	Snippet   string // appended block, for OpAppend
	Operation string // OpCreate or OpAppend
}

// GeneratorResult contains the result of a scaffold generation.
type GeneratorResult struct {
	Artifacts ArtifactSet
	Files     []GeneratedFile
	NextSteps []string
}

// Standalone returns the files wholly owned by the dataset.
func (r *GeneratorResult) Standalone() []GeneratedFile {
	return r.filter(OpCreate)
}

// Shared returns the blocks spliced into shared files.
func (r *GeneratorResult) Shared() []GeneratedFile {
	return r.filter(OpAppend)
}

func (r *GeneratorResult) filter(op string) []GeneratedFile {
	var out []GeneratedFile
	for _, f := range r.Files {
		if f.Operation == op {
			out = append(out, f)
		}
	}
	return out
}
