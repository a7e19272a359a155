// Package resources loads the XML documents the client id scan runs over,
// either from a decoded resources directory or straight from an APK.
package resources

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shogo82148/androidbinary"
	"github.com/shogo82148/androidbinary/apk"
	"golang.org/x/sync/errgroup"

	"apk-recon/internal/analyzer"
	"apk-recon/internal/logger"
	"apk-recon/internal/model"
	"apk-recon/internal/xmlparser"
)

// maxEntrySize bounds a single archive entry read into memory.
const maxEntrySize = 64 << 20

// binary XML chunk header (RES_XML_TYPE)
var axmlMagic = []byte{0x03, 0x00}

// Set is the result of a load: the parsed documents in discovery order and
// the number of files that could not be parsed.
type Set struct {
	Documents []*xmlparser.Document
	Failed    int
}

// Loader reads XML resources.
type Loader struct {
	Workers int
	Exclude func(rel string) bool
	OnFile  func() // called once per file, from worker goroutines
}

type loaded struct {
	doc *xmlparser.Document
	err error
}

// LoadDir parses every .xml file under root. Files that fail to parse are
// logged and skipped.
func (l *Loader) LoadDir(root string) (*Set, error) {
	files, err := analyzer.ScanDirectory(root, []string{".xml"}, l.Exclude)
	if err != nil {
		return nil, err
	}

	results := make([]loaded, len(files))
	g := new(errgroup.Group)
	g.SetLimit(l.workers(len(files)))
	for i, path := range files {
		g.Go(func() error {
			results[i] = loadFile(path)
			if l.OnFile != nil {
				l.OnFile()
			}
			return nil
		})
	}
	_ = g.Wait()

	return collect(files, results), nil
}

func loadFile(path string) loaded {
	content, err := analyzer.ReadFile(path)
	if err != nil {
		return loaded{err: err}
	}
	doc, err := xmlparser.ParseXMLFile(content)
	if err != nil {
		return loaded{err: err}
	}
	doc.Path = path
	return loaded{doc: doc}
}

// LoadAPK parses every .xml entry of the archive at path in archive order.
// Compiled (binary) XML is decoded first; text XML is parsed as is.
func (l *Loader) LoadAPK(path string) (*Set, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open APK: %w", err)
	}
	defer zr.Close()

	var entries []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(filepath.Ext(f.Name), ".xml") {
			continue
		}
		if l.Exclude != nil && l.Exclude(f.Name) {
			continue
		}
		entries = append(entries, f)
	}

	names := make([]string, len(entries))
	results := make([]loaded, len(entries))
	g := new(errgroup.Group)
	g.SetLimit(l.workers(len(entries)))
	for i, f := range entries {
		names[i] = f.Name
		g.Go(func() error {
			results[i] = loadEntry(f)
			if l.OnFile != nil {
				l.OnFile()
			}
			return nil
		})
	}
	_ = g.Wait()

	return collect(names, results), nil
}

func loadEntry(f *zip.File) loaded {
	if f.UncompressedSize64 > maxEntrySize {
		return loaded{err: fmt.Errorf("entry too large (%d bytes)", f.UncompressedSize64)}
	}
	rc, err := f.Open()
	if err != nil {
		return loaded{err: err}
	}
	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize))
	rc.Close()
	if err != nil {
		return loaded{err: err}
	}

	data, err = DecodeXML(data)
	if err != nil {
		return loaded{err: err}
	}
	doc, err := xmlparser.ParseBytes(data)
	if err != nil {
		return loaded{err: err}
	}
	doc.Path = f.Name
	return loaded{doc: doc}
}

// DecodeXML returns data as text XML, decoding Android binary XML when the
// chunk header says so.
func DecodeXML(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, axmlMagic) {
		return data, nil
	}
	xf, err := androidbinary.NewXMLFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode binary XML: %w", err)
	}
	return io.ReadAll(xf.Reader())
}

func collect(names []string, results []loaded) *Set {
	set := &Set{Documents: make([]*xmlparser.Document, 0, len(results))}
	for i, r := range results {
		if r.err != nil {
			logger.LogParseError(names[i], r.err, "xml resource")
			set.Failed++
			continue
		}
		set.Documents = append(set.Documents, r.doc)
	}
	if set.Failed > 0 {
		logger.Warn("%d of %d XML files could not be parsed (details in log file)", set.Failed, len(results))
	}
	return set
}

func (l *Loader) workers(n int) int {
	w := l.Workers
	if w < 1 {
		w = 1
	}
	if n > 0 && w > n {
		w = n
	}
	return w
}

// ReadAppInfo reads package name and version from the manifest of the APK
// at path.
func ReadAppInfo(path string) (model.AppInfo, error) {
	pkg, err := apk.OpenFile(path)
	if err != nil {
		return model.AppInfo{}, fmt.Errorf("failed to open APK: %w", err)
	}
	defer pkg.Close()

	manifest := pkg.Manifest()

	var info model.AppInfo
	if info.PackageName, err = manifest.Package.String(); err != nil {
		return model.AppInfo{}, fmt.Errorf("failed to read package name: %w", err)
	}
	// version attributes are optional in the manifest
	if name, err := manifest.VersionName.String(); err == nil {
		info.VersionName = name
	}
	if code, err := manifest.VersionCode.Int32(); err == nil {
		info.VersionCode = code
	}
	return info, nil
}
