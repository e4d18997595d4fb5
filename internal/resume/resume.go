// Package resume turns an uploaded résumé file into a CandidateProfile.
package resume

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/features"
	"github.com/spigell/resume-matcher/internal/models"
)

// idLength is the number of hex characters of the content digest used as ID.
const idLength = 16

// Parser runs text extraction followed by feature analysis.
type Parser struct {
	extractor *document.Extractor
	logger    *zap.Logger
	now       func() time.Time
}

func NewParser(extractor *document.Extractor, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if extractor == nil {
		extractor = document.NewExtractor(logger)
	}
	return &Parser{
		extractor: extractor,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Parse builds a profile whose ID is derived from the content, so uploading the
// same file twice yields the same candidate.
func (p *Parser) Parse(name string, content []byte, format document.Format) (*models.CandidateProfile, error) {
	return p.ParseWithID(ContentID(content), name, content, format)
}

// ParseWithID builds a profile with the given candidate ID.
func (p *Parser) ParseWithID(id, name string, content []byte, format document.Format) (*models.CandidateProfile, error) {
	text, err := p.extractor.Extract(content, format)
	if err != nil {
		return nil, fmt.Errorf("parsing resume %q: %w", name, err)
	}

	f := features.Analyze(text)

	profile := &models.CandidateProfile{
		ID:            id,
		OriginalName:  name,
		Format:        string(format),
		ExtractedText: text,
		Keywords:      f.Keywords,
		Skills:        f.Skills,
		Contact:       f.Contact,
		Experience:    f.Experience,
		Education:     f.Education,
		UploadedAt:    p.now(),
	}

	p.logger.Info("resume parsed",
		zap.String("candidate_id", profile.ID),
		zap.String("file", name),
		zap.String("format", string(format)),
		zap.Int("keywords", len(profile.Keywords)),
		zap.Int("skills", len(profile.Skills)),
	)

	return profile, nil
}

// ContentID returns a stable identifier for content.
func ContentID(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])[:idLength]
}
