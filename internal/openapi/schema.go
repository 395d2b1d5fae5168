package openapi

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/spec"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	nonWordChar = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// schemaBuilder reflects Go types into swagger schemas. Named structs are stored
// once under #/definitions and referenced from everywhere else.
type schemaBuilder struct {
	defs spec.Definitions
}

func newSchemaBuilder(defs spec.Definitions) *schemaBuilder {
	return &schemaBuilder{defs: defs}
}

func (b *schemaBuilder) schemaOf(v any) *spec.Schema {
	if v == nil {
		return nil
	}
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	return b.schemaFor(t)
}

func (b *schemaBuilder) schemaFor(t reflect.Type) *spec.Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return spec.DateTimeProperty()
	}

	switch t.Kind() {
	case reflect.String:
		return spec.StringProperty()
	case reflect.Bool:
		return spec.BoolProperty()
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint8, reflect.Uint16:
		return spec.Int32Property()
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return spec.Int64Property()
	case reflect.Float32:
		return spec.Float32Property()
	case reflect.Float64:
		return spec.Float64Property()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return spec.StrFmtProperty("byte")
		}
		return spec.ArrayProperty(b.schemaFor(t.Elem()))
	case reflect.Map:
		return spec.MapProperty(b.schemaFor(t.Elem()))
	case reflect.Struct:
		return b.structRef(t)
	default:
		return &spec.Schema{}
	}
}

func (b *schemaBuilder) structRef(t reflect.Type) *spec.Schema {
	name := definitionName(t)
	if name == "" {
		s := b.structSchema(t)
		return &s
	}
	if _, seen := b.defs[name]; !seen {
		// placeholder first so self-referencing types terminate
		b.defs[name] = spec.Schema{}
		b.defs[name] = b.structSchema(t)
	}
	return spec.RefProperty("#/definitions/" + name)
}

func (b *schemaBuilder) structSchema(t reflect.Type) spec.Schema {
	s := spec.Schema{SchemaProps: spec.SchemaProps{
		Type:       spec.StringOrArray{"object"},
		Properties: spec.SchemaProperties{},
	}}
	b.addFields(&s, t)
	return s
}

func (b *schemaBuilder) addFields(s *spec.Schema, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonField(f)
		if skip {
			continue
		}
		if f.Anonymous && name == "" {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				b.addFields(s, ft)
				continue
			}
		}
		if name == "" {
			name = f.Name
		}
		prop := b.schemaFor(f.Type)
		rules := parseRules(f)
		applyRules(prop, rules)
		if desc := f.Tag.Get("doc"); desc != "" {
			prop.WithDescription(desc)
		}
		s.SetProperty(name, *prop)
		if rules.required || (!omitEmpty && f.Type.Kind() != reflect.Pointer) {
			s.AddRequired(name)
		}
	}
}

// definitionName flattens generic instantiations: Page[pkg.RouteInfo] becomes PageRouteInfo.
func definitionName(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		return ""
	}
	open := strings.IndexByte(name, '[')
	if open < 0 {
		return name
	}
	base := name[:open]
	args := strings.Split(strings.TrimSuffix(name[open+1:], "]"), ",")
	for _, a := range args {
		if dot := strings.LastIndexByte(a, '.'); dot >= 0 {
			a = a[dot+1:]
		}
		base += nonWordChar.ReplaceAllString(a, "")
	}
	return base
}

func jsonField(f reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if p == "omitempty" || p == "omitzero" {
			omitEmpty = true
		}
	}
	return parts[0], omitEmpty, false
}

// rules are the subset of validator constraints that have a swagger counterpart.
type rules struct {
	required bool
	min, max *float64
	enum     []string
	format   string
}

func parseRules(f reflect.StructField) rules {
	tag := f.Tag.Get("binding")
	if tag == "" {
		tag = f.Tag.Get("validate")
	}
	var r rules
	for _, rule := range strings.Split(tag, ",") {
		key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
		switch key {
		case "required":
			r.required = true
		case "min", "gte":
			r.min = parseFloat(param)
		case "max", "lte":
			r.max = parseFloat(param)
		case "oneof":
			r.enum = strings.Fields(param)
		case "email", "uuid", "url", "uri":
			r.format = key
		}
	}
	return r
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func applyRules(s *spec.Schema, r rules) {
	if len(s.Type) == 0 {
		return
	}
	switch s.Type[0] {
	case "integer", "number":
		if r.min != nil {
			s.WithMinimum(*r.min, false)
		}
		if r.max != nil {
			s.WithMaximum(*r.max, false)
		}
	case "string":
		if r.min != nil {
			s.WithMinLength(int64(*r.min))
		}
		if r.max != nil {
			s.WithMaxLength(int64(*r.max))
		}
		if r.format != "" {
			s.Format = r.format
		}
	case "array":
		if r.min != nil {
			s.WithMinItems(int64(*r.min))
		}
		if r.max != nil {
			s.WithMaxItems(int64(*r.max))
		}
	}
	if len(r.enum) > 0 {
		vals := make([]any, len(r.enum))
		for i, e := range r.enum {
			vals[i] = e
		}
		s.WithEnum(vals...)
	}
}
