// Package envx reads LEAVEKEEPER_* settings from the process environment and
// an optional dotenv file.
package envx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Prefix of every variable read through an Env.
const Prefix = "LEAVEKEEPER_"

// DefaultFile is read when no file is named explicitly and it exists.
const DefaultFile = ".env"

// Env looks variables up in the process environment first and in the dotenv
// file second. The process environment is never modified.
type Env struct {
	file map[string]string
}

// Load reads path, or DefaultFile when path is empty. A missing default file
// is not an error; a missing explicit one is.
func Load(path string) (*Env, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	m, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Env{file: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return &Env{file: m}, nil
}

// Lookup returns Prefix+name.
func (e *Env) Lookup(name string) (string, bool) {
	key := Prefix + name
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := e.file[key]
	return v, ok
}

// String overwrites *dst when the variable is set.
func (e *Env) String(dst *string, name string) {
	if v, ok := e.Lookup(name); ok {
		*dst = v
	}
}

// Int overwrites *dst when the variable is set and numeric.
func (e *Env) Int(dst *int, name string) error {
	v, ok := e.Lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", Prefix, name, err)
	}
	*dst = n
	return nil
}

// Duration accepts "500ms"-style values or a bare number of milliseconds.
func (e *Env) Duration(dst *time.Duration, name string) error {
	v, ok := e.Lookup(name)
	if !ok {
		return nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", Prefix, name, err)
	}
	*dst = d
	return nil
}

// Bool overwrites *dst when the variable is set to a strconv.ParseBool value.
func (e *Env) Bool(dst *bool, name string) error {
	v, ok := e.Lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", Prefix, name, err)
	}
	*dst = b
	return nil
}
