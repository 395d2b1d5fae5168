package model_test

import (
	"reflect"
	"testing"

	"github.com/maxviazov/poster-api/internal/model"
	"github.com/stretchr/testify/assert"
)

// Response DTOs are written, never bound, so validation tags on them are dead.
func TestResponseTypesCarryNoBindingTags(t *testing.T) {
	for _, v := range []any{model.VersionInfo{}, model.RouteInfo{}, model.HealthStatus{}} {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			_, ok := f.Tag.Lookup("binding")
			assert.False(t, ok, "%s.%s", typ.Name(), f.Name)
		}
	}
}
