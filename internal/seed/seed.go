// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/titouancv/mapinned/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// landmarks anchor generated photos to plausible places on the map. Each
// photo gets a small jitter so pins do not stack exactly.
var landmarks = []struct {
	Name string
	Lat  float64
	Lon  float64
}{
	{"Eiffel Tower", 48.8584, 2.2945},
	{"Golden Gate Bridge", 37.8199, -122.4783},
	{"Shibuya Crossing", 35.6595, 139.7005},
	{"Table Mountain", -33.9628, 18.4098},
	{"Machu Picchu", -13.1631, -72.5450},
	{"Sydney Opera House", -33.8568, 151.2153},
	{"Colosseum", 41.8902, 12.4922},
	{"Central Park", 40.7829, -73.9654},
	{"Sagrada Familia", 41.4036, 2.1744},
	{"Mount Fuji", 35.3606, 138.7274},
	{"Big Ben", 51.5007, -0.1246},
	{"Christ the Redeemer", -22.9519, -43.2105},
}

// Seeder creates demo data.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows, children first.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Photo{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// SeedUsers creates n users. User IDs mirror what the auth provider would
// issue, so they are opaque strings rather than serial integers.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			ID:    uuid.NewString(),
			Name:  gofakeit.Name(),
			Email: fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Image: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))
	return users, nil
}

// SeedPhotos creates n photos spread across the landmark anchors with
// randomized owners and a realistic created_at spread.
func (s *Seeder) SeedPhotos(users []*models.User, n int) ([]*models.Photo, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to own photos")
	}

	photos := make([]*models.Photo, 0, n)
	for i := 0; i < n; i++ {
		spot := landmarks[s.r.Intn(len(landmarks))]
		owner := users[s.r.Intn(len(users))]

		photo := &models.Photo{
			URL:         fmt.Sprintf("https://picsum.photos/seed/%s/1200/800", gofakeit.UUID()),
			Description: fmt.Sprintf("%s near %s", gofakeit.Sentence(6), spot.Name),
			Latitude:    spot.Lat + s.jitter(),
			Longitude:   spot.Lon + s.jitter(),
			UserID:      owner.ID,
			CreatedAt:   s.pastTime(90),
		}
		if err := s.db.Create(photo).Error; err != nil {
			return nil, fmt.Errorf("create photo: %w", err)
		}
		photos = append(photos, photo)
	}
	log.Printf("Created %d photos", len(photos))
	return photos, nil
}

// SeedComments creates roughly perPhoto comments on each photo.
func (s *Seeder) SeedComments(users []*models.User, photos []*models.Photo, perPhoto int) error {
	total := 0
	for _, photo := range photos {
		count := s.r.Intn(perPhoto + 1)
		for i := 0; i < count; i++ {
			author := users[s.r.Intn(len(users))]
			comment := &models.Comment{
				Content:   gofakeit.Sentence(8 + s.r.Intn(10)),
				PhotoID:   photo.ID,
				UserID:    author.ID,
				CreatedAt: s.pastTime(30),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
			total++
		}
	}
	log.Printf("Created %d comments", total)
	return nil
}

// jitter returns a coordinate offset of up to ~500m either way.
func (s *Seeder) jitter() float64 {
	return (s.r.Float64() - 0.5) * 0.01
}

func (s *Seeder) pastTime(maxDays int) time.Time {
	daysBack := s.r.Intn(maxDays)
	hoursBack := s.r.Intn(24)
	minsBack := s.r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
