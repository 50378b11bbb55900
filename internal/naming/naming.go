// Package naming derives sprite resource names and output paths from source
// file names and tag names.
//
// The export filename convention is
//
//	"s" + Normalize(baseName) + Normalize(tagName) + ".png"
//
// and downstream importers parse names back into (asset, tag) pairs, so the
// convention must not change.
package naming

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prefix starts every generated sprite name.
const Prefix = "s"

// SheetExt is the extension of every exported sprite sheet.
const SheetExt = ".png"

// isSeparator reports whether r splits words in Normalize.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ' '
}

// Normalize converts arbitrary text to a camel-case identifier fragment.
// The input is split on '_', '-', '.' and ' '; every non-empty fragment gets
// its first character upper-cased and the remainder lower-cased, and the
// fragments are joined without a separator.
//
//	Normalize("run_left")     == "RunLeft"
//	Normalize("Run-Left.Fast") == "RunLeftFast"
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	var b strings.Builder
	for _, part := range strings.FieldsFunc(raw, isSeparator) {
		first, size := utf8.DecodeRuneInString(part)
		b.WriteString(upper.String(string(first)))
		b.WriteString(lower.String(part[size:]))
	}
	return b.String()
}

// BaseName strips the directory and the last extension from filePath.
func BaseName(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SpriteName builds the resource name for one tag of one asset.
func SpriteName(baseName, tagName string) string {
	return Prefix + Normalize(baseName) + Normalize(tagName)
}

// OutputFileName builds the sprite-sheet file name for one tag of one asset.
func OutputFileName(baseName, tagName string) string {
	return SpriteName(baseName, tagName) + SheetExt
}

// JoinOutputPath joins outputDir and fileName with exactly one separator.
// Unlike filepath.Join it does not clean outputDir, so "." stays "./x.png".
func JoinOutputPath(outputDir, fileName string) string {
	if outputDir == "" {
		return fileName
	}
	if strings.HasSuffix(outputDir, "/") || strings.HasSuffix(outputDir, string(os.PathSeparator)) {
		return outputDir + fileName
	}
	return outputDir + string(os.PathSeparator) + fileName
}

// DefaultOutputDir returns the directory component of filePath, or "." when
// filePath has none.
func DefaultOutputDir(filePath string) string {
	return filepath.Dir(filePath)
}

// FolderPath mirrors the directory hierarchy between watchDir and the asset
// under root, normalizing every component:
//
//	FolderPath("Sprites", "/art", "/art/enemies/big_bosses/ogre.aseprite") == "Sprites/Enemies/BigBosses"
//
// Assets directly inside watchDir, or outside it, map to root.
func FolderPath(root, watchDir, assetPath string) string {
	rel, err := filepath.Rel(watchDir, filepath.Dir(assetPath))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return root
	}

	parts := []string{root}
	for _, component := range strings.Split(filepath.ToSlash(rel), "/") {
		if component == "" {
			continue
		}
		parts = append(parts, Normalize(component))
	}
	return strings.Join(parts, "/")
}
