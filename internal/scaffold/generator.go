package scaffold

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/francisjervis/nyc-db/internal/config"
	"github.com/francisjervis/nyc-db/internal/templates"
	scaffoldtmpl "github.com/francisjervis/nyc-db/internal/templates/scaffold"
)

// Options tune generation.
type Options struct {
	IndexColumn string // defaults to config.DefaultIndexColumn
	SampleLines int    // defaults to config.DefaultSampleLines
}

// Generator generates dataset content from templates.
type Generator struct {
	funcs template.FuncMap
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{
		funcs: scaffoldtmpl.TemplateFuncs(),
	}
}

// BuildDatasetSpec builds a DatasetSpec from a dataset name and CSV header.
func BuildDatasetSpec(name string, header []string, indexColumn string) (*DatasetSpec, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if indexColumn == "" {
		indexColumn = config.DefaultIndexColumn
	}
	if !IsValidName(indexColumn) {
		return nil, fmt.Errorf("%w: index column %q", ErrInvalidName, indexColumn)
	}

	fields := make([]Field, len(header))
	for i, col := range header {
		fields[i] = Field{
			Column:      col,
			DisplayName: ToDisplayCase(col),
			Type:        DefaultFieldType,
		}
	}

	return &DatasetSpec{
		Name:        name,
		Header:      append([]string(nil), header...),
		Fields:      fields,
		IndexColumn: indexColumn,
	}, nil
}

// SchemaText renders the dataset's YAML schema declaration.
func (g *Generator) SchemaText(spec *DatasetSpec) (string, error) {
	text, err := g.renderTemplate(scaffoldtmpl.SchemaTemplate, spec)
	if err != nil {
		return "", err
	}
	if err := checkSchema(text, spec); err != nil {
		return "", err
	}
	return text, nil
}

// TransformText renders the passthrough transformation function.
func (g *Generator) TransformText(spec *DatasetSpec) (string, error) {
	return g.renderTemplate(scaffoldtmpl.TransformTemplate, spec)
}

// TestText renders the integration test function.
func (g *Generator) TestText(spec *DatasetSpec) (string, error) {
	return g.renderTemplate(scaffoldtmpl.TestTemplate, spec)
}

// IndexSQLText renders the index creation script.
func (g *Generator) IndexSQLText(spec *DatasetSpec) (string, error) {
	return g.renderTemplate(scaffoldtmpl.IndexTemplate, spec)
}

// GenerateDataset reads the CSV at csvPath and generates every artifact for
// the dataset named by its stem, bound to paths in layout.
func (g *Generator) GenerateDataset(csvPath string, layout config.Layout, opts Options) (*GeneratorResult, error) {
	if opts.SampleLines <= 0 {
		opts.SampleLines = config.DefaultSampleLines
	}

	name := DatasetNameFromPath(csvPath)
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	header, err := ReadHeader(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", csvPath, err)
	}

	spec, err := BuildDatasetSpec(name, header, opts.IndexColumn)
	if err != nil {
		return nil, err
	}

	set := ArtifactSet{
		Name:       spec.Name,
		SourcePath: csvPath,
		Header:     spec.Header,
	}

	renders := []struct {
		name   string
		render func(*DatasetSpec) (string, error)
		dst    *string
	}{
		{"schema", g.SchemaText, &set.Schema},
		{"transform", g.TransformText, &set.Transform},
		{"index sql", g.IndexSQLText, &set.IndexSQL},
		{"test", g.TestText, &set.Test},
	}
	for _, r := range renders {
		text, err := r.render(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", r.name, err)
		}
		*r.dst = text
	}

	set.CSVSample, err = CSVSample(csvPath, opts.SampleLines)
	if err != nil {
		return nil, err
	}

	result := &GeneratorResult{
		Artifacts: set,
		Files: []GeneratedFile{
			{Path: layout.SchemaPath(name), Content: set.Schema, Operation: OpCreate},
			{Path: layout.SQLPath(name), Content: set.IndexSQL, Operation: OpCreate},
			{Path: layout.SamplePath(name), Content: set.CSVSample, Operation: OpCreate},
			{Path: layout.TransformationsPath(), Snippet: set.Transform, Operation: OpAppend},
			{Path: layout.TestPath(), Snippet: set.Test, Operation: OpAppend},
		},
	}

	result.NextSteps, err = g.nextSteps(spec, layout)
	if err != nil {
		return nil, err
	}

	return result, nil
}

// renderTemplate renders a dataset template and normalises the block.
func (g *Generator) renderTemplate(name string, spec *DatasetSpec) (string, error) {
	tmplContent, err := scaffoldtmpl.GetDatasetTemplate(name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Funcs(g.funcs).Parse(tmplContent)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", err
	}

	return normalizeBlock(buf.String()), nil
}

// nextSteps renders the post-scaffold guidance, one step per line.
func (g *Generator) nextSteps(spec *DatasetSpec, layout config.Layout) ([]string, error) {
	tmplContent, err := templates.GetNextSteps()
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("next-steps").Funcs(g.funcs).Parse(tmplContent)
	if err != nil {
		return nil, err
	}

	data := struct {
		Name                string
		FieldType           string
		IndexColumn         string
		DefaultIndex        bool
		SchemaPath          string
		SQLPath             string
		TransformationsFile string
		TestFile            string
	}{
		Name:                spec.Name,
		FieldType:           DefaultFieldType,
		IndexColumn:         spec.IndexColumn,
		DefaultIndex:        spec.IndexColumn == config.DefaultIndexColumn,
		SchemaPath:          layout.SchemaPath(spec.Name),
		SQLPath:             layout.SQLPath(spec.Name),
		TransformationsFile: layout.TransformationsPath(),
		TestFile:            layout.TestPath(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	var steps []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps, nil
}

// schemaDoc mirrors the parts of a dataset declaration we check.
type schemaDoc struct {
	Files []struct {
		URL  string `yaml:"url"`
		Dest string `yaml:"dest"`
	} `yaml:"files"`
	Schema struct {
		TableName string            `yaml:"table_name"`
		Fields    map[string]string `yaml:"fields"`
	} `yaml:"schema"`
}

// checkSchema parses the rendered schema back to catch headers that would
// produce a broken declaration.
func checkSchema(text string, spec *DatasetSpec) error {
	var doc schemaDoc
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return fmt.Errorf("generated schema is not valid YAML: %w", err)
	}
	if doc.Schema.TableName != spec.Name {
		return fmt.Errorf("generated schema has table_name %q, want %q", doc.Schema.TableName, spec.Name)
	}
	if len(doc.Schema.Fields) != len(spec.Fields) {
		return fmt.Errorf("generated schema declares %d fields, header has %d columns", len(doc.Schema.Fields), len(spec.Fields))
	}
	return nil
}
