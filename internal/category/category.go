package category

import (
	"fmt"

	"github.com/valyala/fastrand"
)

// Category is the class of word a drawer has to get across. Values are the wire format.
type Category string

const (
	Actions Category = "acciones"
	Objects Category = "objetos"
	Sayings Category = "refranes"
	Customs Category = "costumbres"
)

var all = []Category{Actions, Objects, Sayings, Customs}

// Total is the number of distinct categories a team can complete.
var Total = len(all)

var ErrUnknown = fmt.Errorf("unknown category")

func All() []Category {
	categories := make([]Category, len(all))
	copy(categories, all)
	return categories
}

func (c Category) Valid() bool {
	for _, category := range all {
		if c == category {
			return true
		}
	}

	return false
}

func (c Category) String() string {
	return string(c)
}

func Parse(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnknown)
	}

	return c, nil
}

// Roll draws a category uniformly at random.
func Roll() Category {
	return all[fastrand.Uint32n(uint32(len(all)))]
}
