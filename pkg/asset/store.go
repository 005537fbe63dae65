package asset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultBaseDir は保存先のデフォルト（カレントディレクトリ）です。
	DefaultBaseDir = "."

	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Store は FolderKey ごとのフォルダに生成物を書き出すローカルストレージです。
type Store struct {
	baseDir string
}

// NewStore は baseDir を起点とする Store を生成します。空文字ならカレントディレクトリです。
func NewStore(baseDir string) *Store {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return &Store{baseDir: baseDir}
}

// BaseDir は保存先の起点ディレクトリを返します。
func (s *Store) BaseDir() string {
	return s.baseDir
}

// FolderPath は folderKey に対応するディレクトリのパスを返します。
// folderKey が空の場合は baseDir そのものです。
func (s *Store) FolderPath(folderKey string) string {
	return filepath.Join(s.baseDir, folderKey)
}

// SaveArtifact は data を <baseDir>/<folderKey>/<fileName> に書き出し、そのパスを返します。
// フォルダが無ければ親も含めて作成し、既存ファイルは上書きします。
func (s *Store) SaveArtifact(fileName string, data []byte, folderKey string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) {
		return "", fmt.Errorf("不正なファイル名です: %q", fileName)
	}

	dir := s.FolderPath(folderKey)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("保存先フォルダの作成に失敗しました (%s): %w", dir, err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("ファイルの書き込みに失敗しました (%s): %w", path, err)
	}
	return path, nil
}

// List は folderKey のフォルダ内の生成画像ファイル名を連番の数値順で返します。
// exts を指定した場合はその拡張子のものだけを返します。フォルダが無い場合は空です。
func (s *Store) List(folderKey string, exts ...string) ([]string, error) {
	entries, err := os.ReadDir(s.FolderPath(folderKey))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("保存先フォルダの読み込みに失敗しました: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !ArtifactFileRegex.MatchString(e.Name()) {
			continue
		}
		if len(exts) > 0 && !matchesAnyExt(e.Name(), exts) {
			continue
		}
		names = append(names, e.Name())
	}
	SortArtifacts(names)
	return names, nil
}

// Open は生成画像を読み込み用に開きます。名前の検証は呼び出し側の責務です。
func (s *Store) Open(folderKey, fileName string) (*os.File, error) {
	return os.Open(filepath.Join(s.FolderPath(folderKey), fileName))
}

func matchesAnyExt(name string, exts []string) bool {
	for _, ext := range exts {
		if hasExt(name, ext) {
			return true
		}
	}
	return false
}
