// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reflectx provides reflection helpers for working with
// struct field tags.
package reflectx

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SetFromDefaultTags sets values of fields in the given struct pointer
// based on `def:` default value field tags, recursing into struct
// fields without one. Fields without a tag are left unchanged.
func SetFromDefaultTags(obj any) error {
	val := reflect.ValueOf(obj)
	if val.Kind() != reflect.Pointer || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("SetFromDefaultTags: need a non-nil struct pointer, not %T", obj)
	}
	val = val.Elem()
	typ := val.Type()
	var err error
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := val.Field(i)
		def, ok := f.Tag.Lookup("def")
		if f.Type.Kind() == reflect.Struct && (!ok || def == "") {
			if serr := SetFromDefaultTags(fv.Addr().Interface()); serr != nil {
				err = serr
			}
			continue
		}
		if !ok || def == "" {
			continue
		}
		if serr := SetString(fv, def); serr != nil {
			err = fmt.Errorf("SetFromDefaultTags: field %s of %s from %q: %w", f.Name, typ.Name(), def, serr)
		}
	}
	return err
}

// SetString sets the given settable value from a string, using
// [encoding.TextUnmarshaler] if the value implements it.
func SetString(v reflect.Value, s string) error {
	if tu, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(s))
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 0, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 0, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(n)
	default:
		return fmt.Errorf("unsupported kind %v", v.Kind())
	}
	return nil
}

// FieldTag returns the value of the given tag key on the field at the
// given dot-separated path in the struct type of obj, such as "Load.Tag".
func FieldTag(obj any, path, key string) (string, error) {
	typ := reflect.TypeOf(obj)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	var f reflect.StructField
	for _, name := range strings.Split(path, ".") {
		if typ == nil || typ.Kind() != reflect.Struct {
			return "", fmt.Errorf("FieldTag: %s: not a struct field path", path)
		}
		var ok bool
		f, ok = typ.FieldByName(name)
		if !ok {
			return "", fmt.Errorf("FieldTag: %s: no field %s in %s", path, name, typ.Name())
		}
		typ = f.Type
	}
	return f.Tag.Get(key), nil
}
