package asset

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

const (
	// ArtifactPrefix は生成画像ファイル名の共通プレフィックスです。
	ArtifactPrefix = "STORIES"
	// folderKeyWindow はフォルダ名の算出に使う先頭文字数です。
	folderKeyWindow = 10
)

// ArtifactFileRegex は STORIES_0.png のような生成画像ファイル名に一致します。
var ArtifactFileRegex = createIndexedRegex(ArtifactPrefix)

// FolderKey はプレミスの先頭10文字から英数字だけを残し、小文字化した文字列を返します。
// 先頭10文字で切り出してからフィルタするため、長さは最大でも10文字です。
func FolderKey(premise string) string {
	var sb strings.Builder
	n := 0
	for _, r := range premise {
		if n >= folderKeyWindow {
			break
		}
		n++
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			sb.WriteRune(r)
		}
	}
	return strings.ToLower(sb.String())
}

// IsFolderKey は key が FolderKey の出力として妥当な（空でない）文字列かを判定します。
// パスとして外部から受け取った値の検証に使います。
func IsFolderKey(key string) bool {
	return key != "" && FolderKey(key) == key
}

// ArtifactFileName は連番と MIME タイプから STORIES_<index><ext> を組み立てます。
func ArtifactFileName(index int, mimeType string) string {
	return fmt.Sprintf("%s_%d%s", ArtifactPrefix, index, ExtensionForMIME(mimeType))
}

// ArtifactIndex はファイル名から連番を取り出します。一致しない場合は false です。
func ArtifactIndex(fileName string) (int, bool) {
	m := ArtifactFileRegex.FindStringSubmatch(fileName)
	if m == nil {
		return 0, false
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return idx, true
}

// ExtensionForMIME は MIME タイプからファイル拡張子（ドット付き）を決定します。
func ExtensionForMIME(mimeType string) string {
	base := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	if ext, ok := getPreferredExtension(base); ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(base); err == nil && len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" {
		return "." + strings.TrimPrefix(sub, "x-")
	}
	return ".bin"
}

// getPreferredExtension は OS の MIME データベースに依存せず決まった拡張子を返すためのマップです。
func getPreferredExtension(mimeType string) (string, bool) {
	preferred := map[string]string{
		"image/png":  ".png",
		"image/jpeg": ".jpeg",
		"image/webp": ".webp",
		"image/gif":  ".gif",
	}
	ext, ok := preferred[mimeType]
	return ext, ok
}

// SortArtifacts はファイル名を連番の数値順に並べ替えます。
// 連番を持たない名前は末尾に辞書順で並びます。
func SortArtifacts(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, okA := ArtifactIndex(names[i])
		b, okB := ArtifactIndex(names[j])
		switch {
		case okA && okB:
			if a != b {
				return a < b
			}
			return names[i] < names[j]
		case okA:
			return true
		case okB:
			return false
		default:
			return names[i] < names[j]
		}
	})
}

// createIndexedRegex は、プレフィックスに基づきインデックス付きファイル用の正規表現を生成します。
// 例: "STORIES" -> ^STORIES_(\d+)(\.[A-Za-z0-9]+)?$
func createIndexedRegex(prefix string) *regexp.Regexp {
	pattern := fmt.Sprintf(`^%s_(\d+)(\.[A-Za-z0-9]+)?$`, regexp.QuoteMeta(prefix))
	return regexp.MustCompile(pattern)
}

// hasExt は拡張子が一致するかを大文字小文字を無視して判定します。
func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}
