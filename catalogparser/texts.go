package catalogparser

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rankpage/clinicrank-api/logging"
)

// loadCommonTexts builds the site-wide text table. The local site table is
// read first, then the shared common-data table is layered on top with its
// keys winning on conflict. Either load failing degrades to whatever was
// loaded so far; the result is never nil.
func (p *Parser) loadCommonTexts() map[string]string {
	texts := make(map[string]string)

	local := filepath.Join(p.dataDir, commonTextsFile)
	if err := readTextTable(local, texts); err != nil {
		logging.Warn("Local common texts unavailable, continuing without", "path", local, "error", err)
	}

	if p.commonDataDir == "" {
		return texts
	}

	shared := filepath.Join(p.commonDataDir, commonTextsFile)
	overlay := make(map[string]string)
	if err := readTextTable(shared, overlay); err != nil {
		logging.Warn("Shared common texts unavailable, using local only", "path", shared, "error", err)
		return texts
	}
	for key, value := range overlay {
		texts[key] = value
	}

	return texts
}

// loadClinicTexts reads the clinic-keyed text table. Missing or malformed
// data degrades to an empty table; resolvers then serve their defaults.
func (p *Parser) loadClinicTexts() map[string]map[string]string {
	path := filepath.Join(p.dataDir, clinicTextsFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		logging.Warn("Clinic texts unavailable, continuing without", "path", path, "error", err)
		return map[string]map[string]string{}
	}

	var parsed map[string]map[string]string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logging.Warn("Clinic texts unparseable, continuing without", "path", path, "error", err)
		return map[string]map[string]string{}
	}

	// Fold item keys so spreadsheet-sourced full-width variants and the
	// lookup keys used by resolvers compare equal.
	texts := make(map[string]map[string]string, len(parsed))
	for clinicName, items := range parsed {
		folded := make(map[string]string, len(items))
		for key, value := range items {
			folded[FoldKey(key)] = value
		}
		texts[FoldKey(clinicName)] = folded
	}

	return texts
}

func readTextTable(path string, into map[string]string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var parsed map[string]string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return err
	}
	for key, value := range parsed {
		into[key] = value
	}
	return nil
}
