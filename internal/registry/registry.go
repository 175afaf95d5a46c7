// Package registry provides read-only lookups into the local media library:
// character headshots, location angles, and prop images. The library is a
// SQLite file maintained by the asset tooling; this package loads it once
// into memory so the wizard can treat reference candidates as
// already-loaded inputs with no retry or backoff logic.
package registry

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Headshot is one candidate reference image for a character.
type Headshot struct {
	ID          string
	CharacterID string
	Pose        string
	S3Key       string
	URL         string
}

// LocationAngle is one candidate reference image for a location.
type LocationAngle struct {
	ID         string
	LocationID string
	Label      string
	S3Key      string
	URL        string
}

// PropImage is one candidate image for a prop.
type PropImage struct {
	ID     string
	PropID string
	URL    string
}

// Library is an in-memory snapshot of the media library.
type Library struct {
	headshots map[string][]Headshot      // character id -> candidates
	angles    map[string][]LocationAngle // location id -> candidates
	props     map[string][]PropImage     // prop id -> candidates
}

// NewLibrary creates an empty library. Useful when no media library file
// exists yet; every lookup returns no candidates.
func NewLibrary() *Library {
	return &Library{
		headshots: make(map[string][]Headshot),
		angles:    make(map[string][]LocationAngle),
		props:     make(map[string][]PropImage),
	}
}

// Open loads the media library from a SQLite file.
func Open(path string) (*Library, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening media library: %w", err)
	}
	defer db.Close()

	lib := NewLibrary()

	if err := lib.loadHeadshots(db); err != nil {
		return nil, err
	}
	if err := lib.loadAngles(db); err != nil {
		return nil, err
	}
	if err := lib.loadProps(db); err != nil {
		return nil, err
	}

	return lib, nil
}

func (l *Library) loadHeadshots(db *sql.DB) error {
	rows, err := db.Query(`SELECT id, character_id, pose, s3_key, url FROM headshots ORDER BY character_id, pose`)
	if err != nil {
		return fmt.Errorf("querying headshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h Headshot
		if err := rows.Scan(&h.ID, &h.CharacterID, &h.Pose, &h.S3Key, &h.URL); err != nil {
			return fmt.Errorf("scanning headshot row: %w", err)
		}
		l.headshots[h.CharacterID] = append(l.headshots[h.CharacterID], h)
	}

	return rows.Err()
}

func (l *Library) loadAngles(db *sql.DB) error {
	rows, err := db.Query(`SELECT id, location_id, label, s3_key, url FROM location_angles ORDER BY location_id, label`)
	if err != nil {
		return fmt.Errorf("querying location angles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a LocationAngle
		if err := rows.Scan(&a.ID, &a.LocationID, &a.Label, &a.S3Key, &a.URL); err != nil {
			return fmt.Errorf("scanning location angle row: %w", err)
		}
		l.angles[a.LocationID] = append(l.angles[a.LocationID], a)
	}

	return rows.Err()
}

func (l *Library) loadProps(db *sql.DB) error {
	rows, err := db.Query(`SELECT id, prop_id, url FROM prop_images ORDER BY prop_id, id`)
	if err != nil {
		return fmt.Errorf("querying prop images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p PropImage
		if err := rows.Scan(&p.ID, &p.PropID, &p.URL); err != nil {
			return fmt.Errorf("scanning prop image row: %w", err)
		}
		l.props[p.PropID] = append(l.props[p.PropID], p)
	}

	return rows.Err()
}

// Headshots returns the candidate headshots for a character.
func (l *Library) Headshots(characterID string) []Headshot {
	return l.headshots[characterID]
}

// HeadshotCount reports how many headshot candidates a character has. This
// satisfies the wizard's HeadshotSource.
func (l *Library) HeadshotCount(characterID string) int {
	return len(l.headshots[characterID])
}

// LocationAngles returns the candidate angle references for a location.
func (l *Library) LocationAngles(locationID string) []LocationAngle {
	return l.angles[locationID]
}

// PropImages returns the candidate images for a prop.
func (l *Library) PropImages(propID string) []PropImage {
	return l.props[propID]
}
