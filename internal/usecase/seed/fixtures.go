package seed

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const fixtureVersion = 1

// Format names a fixture encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml and .yml files and TOML otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func decodeFixtures(raw []byte, format Format) (fixtureFile, error) {
	var f fixtureFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return fixtureFile{}, err
		}
	case FormatTOML, "":
		if err := toml.Unmarshal(raw, &f); err != nil {
			return fixtureFile{}, err
		}
	default:
		return fixtureFile{}, fmt.Errorf("unsupported fixture format %q", format)
	}
	return f, nil
}

type fixtureFile struct {
	Version  int              `toml:"version" yaml:"version"`
	Users    []userFixture    `toml:"users" yaml:"users"`
	Crashes  []crashFixture   `toml:"crashes" yaml:"crashes"`
	Votes    []voteFixture    `toml:"votes" yaml:"votes"`
	Comments []commentFixture `toml:"comments" yaml:"comments"`
	Ratings  []ratingFixture  `toml:"ratings" yaml:"ratings"`
}

type userFixture struct {
	Handle      string `toml:"handle" yaml:"handle"`
	Password    string `toml:"password" yaml:"password"`
	FirstName   string `toml:"first_name" yaml:"first_name"`
	LastName    string `toml:"last_name" yaml:"last_name"`
	Email       string `toml:"email" yaml:"email"`
	Gender      string `toml:"gender" yaml:"gender"`
	City        string `toml:"city" yaml:"city"`
	State       string `toml:"state" yaml:"state"`
	DateOfBirth string `toml:"date_of_birth" yaml:"date_of_birth"`
}

type vehicleFixture struct {
	PlateID           string `toml:"plate_id" yaml:"plate_id"`
	Type              string `toml:"type" yaml:"type"`
	Make              string `toml:"make" yaml:"make"`
	Model             string `toml:"model" yaml:"model"`
	Year              int    `toml:"year" yaml:"year"`
	StateRegistration string `toml:"state_registration" yaml:"state_registration"`
	Damage            string `toml:"damage" yaml:"damage"`
}

type crashFixture struct {
	Key                string           `toml:"key" yaml:"key"`
	Creator            string           `toml:"creator" yaml:"creator"`
	OccurredAt         time.Time        `toml:"occurred_at" yaml:"occurred_at"`
	Borough            string           `toml:"borough" yaml:"borough"`
	ZipCode            string           `toml:"zip_code" yaml:"zip_code"`
	Latitude           float64          `toml:"latitude" yaml:"latitude"`
	Longitude          float64          `toml:"longitude" yaml:"longitude"`
	OnStreet           string           `toml:"on_street" yaml:"on_street"`
	CrossStreet        string           `toml:"cross_street" yaml:"cross_street"`
	OffStreet          string           `toml:"off_street" yaml:"off_street"`
	Summary            string           `toml:"summary" yaml:"summary"`
	Source             string           `toml:"source" yaml:"source"`
	CollisionID        string           `toml:"collision_id" yaml:"collision_id"`
	Photos             []string         `toml:"photos" yaml:"photos"`
	PersonsInjured     int              `toml:"persons_injured" yaml:"persons_injured"`
	PersonsKilled      int              `toml:"persons_killed" yaml:"persons_killed"`
	PedestriansInjured int              `toml:"pedestrians_injured" yaml:"pedestrians_injured"`
	PedestriansKilled  int              `toml:"pedestrians_killed" yaml:"pedestrians_killed"`
	CyclistsInjured    int              `toml:"cyclists_injured" yaml:"cyclists_injured"`
	CyclistsKilled     int              `toml:"cyclists_killed" yaml:"cyclists_killed"`
	MotoristsInjured   int              `toml:"motorists_injured" yaml:"motorists_injured"`
	MotoristsKilled    int              `toml:"motorists_killed" yaml:"motorists_killed"`
	Vehicles           []vehicleFixture `toml:"vehicles" yaml:"vehicles"`
}

type voteFixture struct {
	Crash string `toml:"crash" yaml:"crash"`
	Voter string `toml:"voter" yaml:"voter"`
	Vote  string `toml:"vote" yaml:"vote"`
}

type commentFixture struct {
	Key     string `toml:"key" yaml:"key"`
	Crash   string `toml:"crash" yaml:"crash"`
	Author  string `toml:"author" yaml:"author"`
	Text    string `toml:"text" yaml:"text"`
	ReplyTo string `toml:"reply_to" yaml:"reply_to"`
}

type ratingFixture struct {
	Target    string `toml:"target" yaml:"target"`
	Rater     string `toml:"rater" yaml:"rater"`
	Direction string `toml:"direction" yaml:"direction"`
}

// validate checks references between sections before anything is written.
func (f fixtureFile) validate() error {
	if f.Version != fixtureVersion {
		return fmt.Errorf("unsupported fixture version %d: expected version = %d", f.Version, fixtureVersion)
	}

	handles := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		handle := strings.ToLower(strings.TrimSpace(u.Handle))
		if handle == "" {
			return fmt.Errorf("users[%d].handle is required", i)
		}
		handles[handle] = true
	}
	knownUser := func(handle string) bool {
		return handles[strings.ToLower(strings.TrimSpace(handle))]
	}

	crashKeys := make(map[string]bool, len(f.Crashes))
	for i, c := range f.Crashes {
		if c.Key == "" {
			return fmt.Errorf("crashes[%d].key is required", i)
		}
		if crashKeys[c.Key] {
			return fmt.Errorf("crashes[%d].key %q is duplicated", i, c.Key)
		}
		if !knownUser(c.Creator) {
			return fmt.Errorf("crashes[%d].creator %q is not a fixture user", i, c.Creator)
		}
		crashKeys[c.Key] = true
	}

	for i, v := range f.Votes {
		if !crashKeys[v.Crash] {
			return fmt.Errorf("votes[%d].crash %q is unknown", i, v.Crash)
		}
		if !knownUser(v.Voter) {
			return fmt.Errorf("votes[%d].voter %q is not a fixture user", i, v.Voter)
		}
	}

	commentKeys := make(map[string]string, len(f.Comments))
	for i, c := range f.Comments {
		if !crashKeys[c.Crash] {
			return fmt.Errorf("comments[%d].crash %q is unknown", i, c.Crash)
		}
		if !knownUser(c.Author) {
			return fmt.Errorf("comments[%d].author %q is not a fixture user", i, c.Author)
		}
		if c.ReplyTo != "" {
			parentCrash, ok := commentKeys[c.ReplyTo]
			if !ok {
				return fmt.Errorf("comments[%d].reply_to %q must name an earlier comment", i, c.ReplyTo)
			}
			if parentCrash != c.Crash {
				return fmt.Errorf("comments[%d].reply_to %q belongs to another crash", i, c.ReplyTo)
			}
		}
		if c.Key != "" {
			commentKeys[c.Key] = c.Crash
		}
	}

	for i, r := range f.Ratings {
		if !knownUser(r.Target) || !knownUser(r.Rater) {
			return fmt.Errorf("ratings[%d] references an unknown user", i)
		}
	}
	return nil
}
