package ingestion

import (
	"path"
	"strings"
)

// structuredTypes are data files profiled for schema metadata. They never
// enter the vector corpus; tabular content embeds poorly.
var structuredTypes = map[string]bool{
	"csv":  true,
	"xlsx": true,
	"xls":  true,
	"json": true,
	"xml":  true,
}

// unstructuredTypes are prose documents eligible for vector indexing.
var unstructuredTypes = map[string]bool{
	"pdf":  true,
	"txt":  true,
	"md":   true,
	"html": true,
	"htm":  true,
	"docx": true,
	"doc":  true,
	"pptx": true,
	"ppt":  true,
	"rtf":  true,
}

// Classify determines the processing kind from the display name's
// extension, falling back to the source pointer when the display name
// carries none. Classification never touches file content.
func Classify(req Request) ClassifiedFile {
	ext := extension(req.DisplayName)
	if ext == "" {
		ext = extension(req.SourcePointer)
	}

	kind := KindUnsupported
	switch {
	case structuredTypes[ext]:
		kind = KindStructured
	case unstructuredTypes[ext]:
		kind = KindUnstructured
	}

	return ClassifiedFile{
		Request:   req,
		Kind:      kind,
		Extension: ext,
	}
}

func extension(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
