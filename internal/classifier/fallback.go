package classifier

import "github.com/fenilsonani/declutter/internal/catalog"

// fallbackTable maps normalized extensions to categories. It is the
// deterministic last resort when rules and the external classifier both
// leave a file unresolved, so every file still receives a category.
var fallbackTable = map[string]catalog.Category{
	// Documents
	"pdf": catalog.CategoryDocuments, "doc": catalog.CategoryDocuments,
	"docx": catalog.CategoryDocuments, "xls": catalog.CategoryDocuments,
	"xlsx": catalog.CategoryDocuments, "ppt": catalog.CategoryDocuments,
	"pptx": catalog.CategoryDocuments, "txt": catalog.CategoryDocuments,
	"rtf": catalog.CategoryDocuments, "odt": catalog.CategoryDocuments,
	"md": catalog.CategoryDocuments, "csv": catalog.CategoryDocuments,
	"epub": catalog.CategoryDocuments,

	// Images
	"jpg": catalog.CategoryImages, "jpeg": catalog.CategoryImages,
	"png": catalog.CategoryImages, "gif": catalog.CategoryImages,
	"bmp": catalog.CategoryImages, "svg": catalog.CategoryImages,
	"webp": catalog.CategoryImages, "tiff": catalog.CategoryImages,
	"heic": catalog.CategoryImages, "ico": catalog.CategoryImages,
	"raw": catalog.CategoryImages,

	// Videos
	"mp4": catalog.CategoryVideos, "mkv": catalog.CategoryVideos,
	"avi": catalog.CategoryVideos, "mov": catalog.CategoryVideos,
	"wmv": catalog.CategoryVideos, "flv": catalog.CategoryVideos,
	"webm": catalog.CategoryVideos, "m4v": catalog.CategoryVideos,
	"mpg": catalog.CategoryVideos, "mpeg": catalog.CategoryVideos,

	// Archives
	"zip": catalog.CategoryArchives, "rar": catalog.CategoryArchives,
	"7z": catalog.CategoryArchives, "tar": catalog.CategoryArchives,
	"gz": catalog.CategoryArchives, "bz2": catalog.CategoryArchives,
	"xz": catalog.CategoryArchives, "iso": catalog.CategoryArchives,

	// Installers
	"exe": catalog.CategoryInstallers, "msi": catalog.CategoryInstallers,
	"dmg": catalog.CategoryInstallers, "pkg": catalog.CategoryInstallers,
	"deb": catalog.CategoryInstallers, "rpm": catalog.CategoryInstallers,
	"appimage": catalog.CategoryInstallers, "apk": catalog.CategoryInstallers,

	// Code
	"go": catalog.CategoryCode, "py": catalog.CategoryCode,
	"js": catalog.CategoryCode, "ts": catalog.CategoryCode,
	"c": catalog.CategoryCode, "cpp": catalog.CategoryCode,
	"h": catalog.CategoryCode, "java": catalog.CategoryCode,
	"rs": catalog.CategoryCode, "rb": catalog.CategoryCode,
	"sh": catalog.CategoryCode, "html": catalog.CategoryCode,
	"css": catalog.CategoryCode, "json": catalog.CategoryCode,
	"yaml": catalog.CategoryCode, "yml": catalog.CategoryCode,
	"sql": catalog.CategoryCode,

	// Audio
	"mp3": catalog.CategoryAudio, "wav": catalog.CategoryAudio,
	"flac": catalog.CategoryAudio, "aac": catalog.CategoryAudio,
	"ogg": catalog.CategoryAudio, "m4a": catalog.CategoryAudio,
	"wma": catalog.CategoryAudio, "opus": catalog.CategoryAudio,

	// Junk
	"tmp": catalog.CategoryJunk, "temp": catalog.CategoryJunk,
	"bak": catalog.CategoryJunk, "old": catalog.CategoryJunk,
	"log": catalog.CategoryJunk, "crdownload": catalog.CategoryJunk,
	"partial": catalog.CategoryJunk, "ds_store": catalog.CategoryJunk,
}

// FallbackCategory resolves a file name through the local extension table.
// Names with no extension or an unrecognized one come back Unknown.
func FallbackCategory(name string) catalog.Category {
	ext := catalog.ExtensionOf(name)
	if ext == "" {
		return catalog.CategoryUnknown
	}
	if category, ok := fallbackTable[ext]; ok {
		return category
	}
	return catalog.CategoryUnknown
}
