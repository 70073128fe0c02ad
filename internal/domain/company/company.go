package company

import (
	"time"

	"jobconnect/internal/common"
)

type RemotePolicy string

const (
	RemoteFirst    RemotePolicy = "Remote-first"
	RemoteHybrid   RemotePolicy = "Hybrid"
	RemoteOnsite   RemotePolicy = "Onsite"
	RemoteFlexible RemotePolicy = "Flexible"
)

func (p RemotePolicy) Valid() bool {
	switch p {
	case RemoteFirst, RemoteHybrid, RemoteOnsite, RemoteFlexible:
		return true
	default:
		return false
	}
}

type Company struct {
	ID           common.UUID         `json:"id"`
	EmployerID   common.UUID         `json:"employerId"`
	Name         string              `json:"name"`
	Tagline      string              `json:"tagline,omitempty"`
	Description  string              `json:"description,omitempty"`
	Industry     string              `json:"industry,omitempty"`
	Founded      int                 `json:"founded,omitempty"`
	TeamSize     string              `json:"teamSize,omitempty"`
	Website      string              `json:"website,omitempty"`
	Location     string              `json:"location,omitempty"`
	RemotePolicy RemotePolicy        `json:"remotePolicy"`
	TechStack    map[string][]string `json:"techStack"`
	Values       []Value             `json:"values"`
	Benefits     map[string][]string `json:"benefits"`
	Verified     bool                `json:"verified"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type Value struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Normalize fills defaults so that stored and serialized companies never carry nil collections.
func (c *Company) Normalize() {
	if c.RemotePolicy == "" {
		c.RemotePolicy = RemoteFlexible
	}
	if c.TechStack == nil {
		c.TechStack = map[string][]string{}
	}
	if c.Benefits == nil {
		c.Benefits = map[string][]string{}
	}
	if c.Values == nil {
		c.Values = []Value{}
	}
}
