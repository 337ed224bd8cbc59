package model

import (
	"path"
	"strings"
)

// Category is a coarse content class derived from a file extension. The UI
// uses it to tag duplicate groups.
type Category int

const (
	CatOther Category = iota
	CatMedia
	CatCode
	CatArchive
	CatDocument
	CatSystem
	CatExecutable
)

// String returns the display name for a category.
func (c Category) String() string {
	switch c {
	case CatMedia:
		return "Media"
	case CatCode:
		return "Code"
	case CatArchive:
		return "Archive"
	case CatDocument:
		return "Document"
	case CatSystem:
		return "System"
	case CatExecutable:
		return "Binary"
	default:
		return "Other"
	}
}

// Color returns the hex color the UI draws a category with.
func (c Category) Color() string {
	switch c {
	case CatMedia:
		return "#E06C75"
	case CatCode:
		return "#61AFEF"
	case CatArchive:
		return "#E5C07B"
	case CatDocument:
		return "#98C379"
	case CatSystem:
		return "#C678DD"
	case CatExecutable:
		return "#D19A66"
	default:
		return "#ABB2BF"
	}
}

var categoryExts = map[Category]string{
	CatMedia: ".jpg .jpeg .png .gif .bmp .svg .webp .ico .tiff .tif .psd .raw .cr2 .nef .heic .heif .avif " +
		".mp4 .mkv .avi .mov .wmv .flv .webm .m4v .mpg .mpeg .3gp .mts " +
		".mp3 .flac .wav .aac .ogg .wma .m4a .opus .aiff .mid .midi",
	CatCode: ".go .py .js .jsx .ts .tsx .rs .c .cpp .cc .h .hpp .java .kt .swift .rb .php .cs .scala " +
		".lua .r .dart .vue .svelte .html .htm .css .scss .sql .sh .bash .zsh .ps1 .bat " +
		".json .yaml .yml .toml .xml .proto",
	CatArchive: ".zip .tar .gz .bz2 .xz .zst .lz4 .rar .7z .iso .dmg .pkg .deb .rpm .tgz .jar .war",
	CatDocument: ".pdf .doc .docx .xls .xlsx .ppt .pptx .odt .ods .odp .rtf .txt .md .rst .tex " +
		".csv .tsv .epub .mobi",
	CatSystem:     ".log .bak .tmp .swp .pid .lock .cache .dat .db .sqlite .sqlite3 .plist .ini .cfg .conf .dll .dylib .so",
	CatExecutable: ".exe .msi .bin .elf .out .wasm .pyc .class .o .a",
}

var extMap = buildExtMap()

func buildExtMap() map[string]Category {
	m := make(map[string]Category)
	for cat, exts := range categoryExts {
		for _, ext := range strings.Fields(exts) {
			m[ext] = cat
		}
	}
	return m
}

// ClassifyPath returns the category of the file at p by its extension.
// Both slash styles are accepted so remote and local paths classify alike.
func ClassifyPath(p string) Category {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	if ext == "" || ext == base {
		return CatOther
	}
	if cat, ok := extMap[ext]; ok {
		return cat
	}
	return CatOther
}

// Category classifies a group by its primary path. Members of a group share
// content, so the first one is representative.
func (g Group) Category() Category {
	if len(g.Files) == 0 {
		return CatOther
	}
	return ClassifyPath(g.Files[0].Path)
}
