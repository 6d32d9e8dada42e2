package transcript

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"qascribe/internal/fileutil"
	"qascribe/internal/logging"
	"qascribe/internal/services"
)

const (
	sourceSuffix  = ".txt"
	cleanedSuffix = "_cleaned.txt"
	component     = "transcript"
)

// Options tunes CleanFile.
type Options struct {
	// Rule selects sentence boundaries; nil means DefaultRule.
	Rule Rule
	// Logger receives a debug summary; nil disables logging.
	Logger *slog.Logger
}

// Result summarizes a CleanFile run.
type Result struct {
	Source    string
	Target    string
	Sentences int
	Groups    int
	Bytes     int
}

// DeriveCleanedPath maps "talk.txt" to "talk_cleaned.txt". Sources without a
// ".txt" suffix are rejected because the derived target would be the source.
func DeriveCleanedPath(source string) (string, error) {
	if !strings.HasSuffix(source, sourceSuffix) {
		return "", services.Wrap(services.ErrConfiguration, component, "derive target",
			fmt.Sprintf("source %q has no %s suffix; pass an explicit output path", source, sourceSuffix), nil)
	}
	return strings.TrimSuffix(source, sourceSuffix) + cleanedSuffix, nil
}

// CleanFile reads source, regroups it into question/answer blocks and writes
// the document to target. An empty target is derived with DeriveCleanedPath.
func CleanFile(source, target string, opts Options) (Result, error) {
	result := Result{Source: source}
	if strings.TrimSpace(source) == "" {
		return result, services.Wrap(services.ErrUsage, component, "clean", "source path required", nil)
	}
	if strings.TrimSpace(target) == "" {
		derived, err := DeriveCleanedPath(source)
		if err != nil {
			return result, err
		}
		target = derived
	}
	if samePath(source, target) {
		return result, services.Wrap(services.ErrConfiguration, component, "clean",
			fmt.Sprintf("output %q would overwrite the source", target), nil)
	}
	result.Target = target

	raw, err := os.ReadFile(source)
	if err != nil {
		return result, services.Wrap(services.ErrResource, component, "read source", source, err)
	}
	text, err := Decode(raw)
	if err != nil {
		return result, services.Wrap(services.ErrEncoding, component, "decode source", source, err)
	}

	doc := Clean(text, opts.Rule)
	rendered := doc.Render()
	if err := fileutil.WriteFileAtomic(target, []byte(rendered), 0o644); err != nil {
		return result, services.Wrap(services.ErrResource, component, "write target", target, err)
	}

	result.Sentences = doc.SentenceCount()
	result.Groups = len(doc.Groups)
	result.Bytes = len(rendered)
	if opts.Logger != nil {
		opts.Logger.Debug("transcript cleaned",
			logging.String("source", source),
			logging.String("target", target),
			logging.Int("sentences", result.Sentences),
			logging.Int("groups", result.Groups),
		)
	}
	return result, nil
}

// Decode validates data as UTF-8 and drops a leading byte order mark.
func Decode(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid UTF-8 at byte offset %d", invalidOffset(data))
	}
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode utf-8: %w", err)
	}
	return string(decoded), nil
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
