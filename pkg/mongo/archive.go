package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/aranyat/reviews-api/pkg/models"
)

const SubmissionsCollection = "review_submissions"

// SentimentClassifier labels review text.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// SubmissionDocument is one archived submission. The reviewer's email is kept
// only as a bcrypt hash.
type SubmissionDocument struct {
	ID             bson.ObjectID  `bson:"_id,omitempty"`
	ProductID      int64          `bson:"product_id"`
	MetafieldID    int64          `bson:"metafield_id"`
	RequestID      string         `bson:"request_id,omitempty"`
	Write          string         `bson:"write"`
	CollectionSize int            `bson:"collection_size"`
	Review         ReviewDocument `bson:"review"`
	Rating         string         `bson:"rating,omitempty"`
	EmailHash      string         `bson:"email_hash,omitempty"`
	Sentiment      string         `bson:"sentiment,omitempty"`
	AcceptedAt     time.Time      `bson:"accepted_at"`
}

// ReviewDocument is the archived copy of a review in plain text. The email
// is left out.
type ReviewDocument struct {
	Name     string `bson:"name,omitempty"`
	Title    string `bson:"title,omitempty"`
	Text     string `bson:"text,omitempty"`
	Verified bool   `bson:"verified"`
	Date     string `bson:"date"`
	Photo    string `bson:"photo"`
	Video    string `bson:"video"`
}

func newReviewDocument(r *models.Review) ReviewDocument {
	return ReviewDocument{
		Name:     models.PlainText(r.Name),
		Title:    models.PlainText(r.Title),
		Text:     models.PlainText(r.Text),
		Verified: r.Verified,
		Date:     r.Date,
		Photo:    models.PlainText(r.Photo),
		Video:    models.PlainText(r.Video),
	}
}

// Archive writes accepted submissions to MongoDB.
type Archive struct {
	collection *mongo.Collection
	classifier SentimentClassifier
}

// NewArchive returns an archive on db. classifier may be nil.
func NewArchive(db *mongo.Database, classifier SentimentClassifier) *Archive {
	return &Archive{
		collection: db.Collection(SubmissionsCollection),
		classifier: classifier,
	}
}

func (a *Archive) Record(ctx context.Context, entry *models.ArchiveEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := BuildDocument(ctx, entry, a.classifier)
	if _, err := a.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to archive submission for product %d: %w", entry.ProductID, err)
	}
	return nil
}

// BuildDocument converts an archive entry into its stored form. A failing
// classifier or hash leaves that field empty.
func BuildDocument(ctx context.Context, entry *models.ArchiveEntry, classifier SentimentClassifier) *SubmissionDocument {
	doc := &SubmissionDocument{
		ProductID:      entry.ProductID,
		MetafieldID:    entry.MetafieldID,
		RequestID:      entry.RequestID,
		Write:          string(entry.Kind),
		CollectionSize: entry.CollectionSize,
		AcceptedAt:     entry.AcceptedAt,
	}
	if entry.Review == nil {
		return doc
	}

	doc.Review = newReviewDocument(entry.Review)
	doc.Rating = entry.Review.RatingText()

	if email := normalizeEmail(models.PlainText(entry.Review.Email)); email != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(email), bcrypt.DefaultCost)
		if err != nil {
			// bcrypt rejects inputs over 72 bytes; archive without the hash.
			log.Warn().Err(err).Int64("product_id", entry.ProductID).Msg("Failed to hash reviewer email")
		} else {
			doc.EmailHash = string(hash)
		}
	}

	if classifier != nil {
		if body := entry.Review.Body(); body != "" {
			sentiment, err := classifier.Classify(ctx, body)
			if err != nil {
				log.Warn().Err(err).Int64("product_id", entry.ProductID).Msg("Sentiment classification failed")
			} else {
				doc.Sentiment = sentiment
			}
		}
	}

	return doc
}

// MatchesEmail reports whether email belongs to the reviewer of doc.
func (d *SubmissionDocument) MatchesEmail(email string) bool {
	if d.EmailHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(d.EmailHash), []byte(normalizeEmail(email))) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
