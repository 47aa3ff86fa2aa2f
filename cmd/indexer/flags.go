package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/newplayman/indexer-client/pkg/optional"
)

// optFlag 未出现在命令行时保持 None
type optFlag[T any] struct {
	value optional.Value[T]
	parse func(string) (T, error)
}

func (f *optFlag[T]) String() string {
	if v, ok := f.value.Get(); ok {
		return fmt.Sprint(v)
	}
	return ""
}

func (f *optFlag[T]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	f.value = optional.Some(v)
	return nil
}

func (f *optFlag[T]) Value() optional.Value[T] {
	return f.value
}

func optionalFlag[T any](fs *flag.FlagSet, name, usage string, parse func(string) (T, error)) *optFlag[T] {
	f := &optFlag[T]{parse: parse}
	fs.Var(f, name, usage)
	return f
}

func optString(fs *flag.FlagSet, name, usage string) *optFlag[string] {
	return optionalFlag(fs, name, usage, func(s string) (string, error) { return s, nil })
}

func optUint32(fs *flag.FlagSet, name, usage string) *optFlag[uint32] {
	return optionalFlag(fs, name, usage, parseUint32)
}

func optUint64(fs *flag.FlagSet, name, usage string) *optFlag[uint64] {
	return optionalFlag(fs, name, usage, func(s string) (uint64, error) {
		return strconv.ParseUint(s, 10, 64)
	})
}

func optBool(fs *flag.FlagSet, name, usage string) *optFlag[bool] {
	return optionalFlag(fs, name, usage, strconv.ParseBool)
}

func optTime(fs *flag.FlagSet, name, usage string) *optFlag[time.Time] {
	return optionalFlag(fs, name, usage, func(s string) (time.Time, error) {
		return time.Parse(time.RFC3339Nano, s)
	})
}

// optEnum 枚举取值统一转为大写
func optEnum[E ~string](fs *flag.FlagSet, name, usage string) *optFlag[E] {
	return optionalFlag(fs, name, usage, func(s string) (E, error) {
		return E(strings.ToUpper(s)), nil
	})
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}
