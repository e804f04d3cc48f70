package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GravitixAI/bolt-mail-operations/internal/domain/model"
)

// Категоризированные ошибки сканирования каталога.
var (
	// ErrEmptyPath — путь не задан; проверяется до любого I/O.
	ErrEmptyPath = errors.New("путь к каталогу не задан")
	// ErrNotFound — путь не существует или недостижим.
	ErrNotFound = errors.New("путь не найден или недоступен")
	// ErrAccessDenied — нет прав на чтение пути.
	ErrAccessDenied = errors.New("доступ к указанному пути запрещён")
	// ErrNotADirectory — путь существует, но это не каталог.
	ErrNotADirectory = errors.New("указанный путь не является каталогом")
)

// Scan читает каталог очереди и возвращает список PDF-файлов с разобранными
// метаданными. Учитываются только обычные файлы с расширением .pdf (без
// учёта регистра); подкаталоги и прочие файлы молча пропускаются.
//
// Сортировка: по дате создания по убыванию, при равенстве — по времени по
// убыванию; любое сравнение, где дата или время отсутствуют, сводится к
// сравнению имён файлов по возрастанию.
func Scan(path string) ([]model.ScannedFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, classifyFSError(err)
	}
	if !info.IsDir() {
		return nil, ErrNotADirectory
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, classifyFSError(err)
	}

	files := make([]model.ScannedFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}

		st, err := os.Stat(filepath.Join(path, entry.Name()))
		if err != nil {
			// Файл исчез между ReadDir и Stat — пропускаем
			continue
		}
		if !st.Mode().IsRegular() {
			continue
		}

		parsed := Parse(entry.Name())
		files = append(files, model.ScannedFile{
			Name:        entry.Name(),
			Size:        st.Size(),
			ModifiedAt:  st.ModTime().UTC(),
			MailType:    parsed.MailType,
			User:        parsed.User,
			CreatedDate: parsed.CreatedDate,
			CreatedTime: parsed.CreatedTime,
			IsSmallFile: st.Size() < model.SmallFileThreshold,
		})
	}

	sortFiles(files)
	return files, nil
}

// sortFiles упорядочивает листинг: новые сверху, нераспарсенные — по имени.
func sortFiles(files []model.ScannedFile) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		if a.CreatedDate != "" && b.CreatedDate != "" {
			if a.CreatedDate != b.CreatedDate {
				return a.CreatedDate > b.CreatedDate
			}
			if a.CreatedTime != "" && b.CreatedTime != "" && a.CreatedTime != b.CreatedTime {
				return a.CreatedTime > b.CreatedTime
			}
		}
		return a.Name < b.Name
	})
}

// classifyFSError сводит ошибку файловой системы к одной из категорий пакета.
func classifyFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return err
	}
}
