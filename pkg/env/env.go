// Package env fills configuration structs from environment variables.
//
// Fields are bound with struct tags:
//
//	Token string        `env:"APP_TOKEN,required" env-description:"bot token"`
//	TTL   time.Duration `env:"APP_TTL" env-default:"20m"`
//
// Nested structs are read recursively. Besides the basic kinds, fields may
// be durations, maps written as "k1:v1,k2:v2", *time.Location, url.URL or
// any encoding.TextUnmarshaler.
package env

import (
	"encoding"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	TagValue       = "env"
	TagDefault     = "env-default"
	TagDescription = "env-description"
)

type parseFunc func(*reflect.Value, string) error

var parsers = map[reflect.Type]parseFunc{
	reflect.TypeOf(url.URL{}): func(fieldValue *reflect.Value, env string) error {
		u, err := url.Parse(env)
		if err != nil {
			return err
		}
		fieldValue.Set(reflect.ValueOf(*u))
		return nil
	},

	reflect.TypeOf((*time.Location)(nil)): func(fieldValue *reflect.Value, env string) error {
		location, err := time.LoadLocation(env)
		if err != nil {
			return err
		}
		fieldValue.Set(reflect.ValueOf(location))
		return nil
	},

	reflect.TypeOf(time.Duration(0)): func(fieldValue *reflect.Value, env string) error {
		d, err := time.ParseDuration(env)
		if err != nil {
			return err
		}
		fieldValue.SetInt(int64(d))
		return nil
	},
}

// Var describes one variable bound by a struct.
type Var struct {
	Name        string
	Default     string
	Description string
	Required    bool
}

// Read fills root, a pointer to a struct, from the environment. A missing
// variable takes its env-default; a missing required variable is an error.
func Read(root interface{}) error {
	return walk(root, func(field reflect.Value, v Var) error {
		env, found := os.LookupEnv(v.Name)
		if v.Required && !found {
			return errors.Errorf("environment variable %s is required but the value is not provided", v.Name)
		}
		if !found {
			env = v.Default
		}
		return parseValue(field, v.Name, env)
	})
}

// Describe lists the variables bound by root in field order.
func Describe(root interface{}) ([]Var, error) {
	var vars []Var
	err := walk(root, func(_ reflect.Value, v Var) error {
		vars = append(vars, v)
		return nil
	})
	return vars, err
}

// Usage renders Describe as one line per variable, for help texts.
func Usage(root interface{}) string {
	vars, err := Describe(root)
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&b, "  %s", v.Name)
		switch {
		case v.Required:
			b.WriteString(" (required)")
		case v.Default != "":
			fmt.Fprintf(&b, " (default %q)", v.Default)
		}
		if v.Description != "" {
			fmt.Fprintf(&b, "\n      %s", v.Description)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func walk(root interface{}, visit func(reflect.Value, Var) error) error {
	rootValue := reflect.ValueOf(root)
	if rootValue.Kind() == reflect.Ptr {
		rootValue = rootValue.Elem()
	}
	if rootValue.Kind() != reflect.Struct {
		return errors.Errorf("unexpected type %v", rootValue.Kind())
	}

	rootType := rootValue.Type()
	for i := 0; i < rootValue.NumField(); i++ {
		fieldType := rootType.Field(i)
		fieldValue := rootValue.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		tagValue, hasTagValue := fieldType.Tag.Lookup(TagValue)
		if !hasTagValue {
			if nested, ok := nestedStruct(fieldValue); ok {
				if err := walk(nested.Addr().Interface(), visit); err != nil {
					return err
				}
			}
			continue
		}

		name, options := parseTag(tagValue)
		v := Var{
			Name:        name,
			Default:     fieldType.Tag.Get(TagDefault),
			Description: fieldType.Tag.Get(TagDescription),
			Required:    options.Contains("required"),
		}
		if err := visit(fieldValue, v); err != nil {
			return err
		}
	}
	return nil
}

// nestedStruct returns the struct an untagged field holds, allocating it
// behind a nil pointer.
func nestedStruct(fieldValue reflect.Value) (reflect.Value, bool) {
	if fieldValue.Kind() == reflect.Ptr && fieldValue.Type().Elem().Kind() == reflect.Struct {
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(fieldValue.Type().Elem()))
		}
		fieldValue = fieldValue.Elem()
	}
	return fieldValue, fieldValue.Kind() == reflect.Struct
}

func parseValue(fieldValue reflect.Value, name, env string) error {
	fieldType := fieldValue.Type()

	if parser, ok := parsers[fieldType]; ok {
		if err := parser(&fieldValue, env); err != nil {
			return errors.Wrapf(err, "can't parse environment variable %v", name)
		}
		return nil
	}

	if fieldValue.CanAddr() {
		if u, ok := fieldValue.Addr().Interface().(encoding.TextUnmarshaler); ok {
			return errors.Wrapf(u.UnmarshalText([]byte(env)), "can't parse environment variable %v", name)
		}
	}

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(env)

	case reflect.Bool:
		b, err := strconv.ParseBool(env)
		if err != nil {
			return errors.Wrapf(err, "can't parse environment variable %v", name)
		}
		fieldValue.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		number, err := strconv.ParseInt(env, 0, fieldType.Bits())
		if err != nil {
			return errors.Wrapf(err, "can't parse environment variable %v", name)
		}
		fieldValue.SetInt(number)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		number, err := strconv.ParseUint(env, 0, fieldType.Bits())
		if err != nil {
			return errors.Wrapf(err, "can't parse environment variable %v", name)
		}
		fieldValue.SetUint(number)

	case reflect.Float32, reflect.Float64:
		number, err := strconv.ParseFloat(env, fieldType.Bits())
		if err != nil {
			return errors.Wrapf(err, "can't parse environment variable %v", name)
		}
		fieldValue.SetFloat(number)

	case reflect.Map:
		mapValue, err := parseMap(fieldType, name, env, ",")
		if err != nil {
			return err
		}
		fieldValue.Set(mapValue)

	case reflect.Ptr:
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(fieldType.Elem()))
		}
		return parseValue(fieldValue.Elem(), name, env)

	default:
		return errors.Errorf("unsupported type %s of environment variable %v", fieldValue.Kind(), name)
	}
	return nil
}

func parseMap(valueType reflect.Type, name, env, sep string) (reflect.Value, error) {
	mapValue := reflect.MakeMap(valueType)
	if strings.TrimSpace(env) == "" {
		return mapValue, nil
	}

	for _, pair := range strings.Split(env, sep) {
		k, v, found := strings.Cut(pair, ":")
		if !found {
			return reflect.Value{}, errors.Errorf("can't parse environment variable %v: invalid map item %q", name, pair)
		}

		key := reflect.New(valueType.Key()).Elem()
		if err := parseValue(key, name, k); err != nil {
			return reflect.Value{}, err
		}
		value := reflect.New(valueType.Elem()).Elem()
		if err := parseValue(value, name, v); err != nil {
			return reflect.Value{}, err
		}
		mapValue.SetMapIndex(key, value)
	}
	return mapValue, nil
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	tag, opt, _ := strings.Cut(tag, ",")
	return tag, tagOptions(opt)
}

func (o tagOptions) Contains(optionName string) bool {
	s := string(o)
	for s != "" {
		var name string
		name, s, _ = strings.Cut(s, ",")
		if name == optionName {
			return true
		}
	}
	return false
}
