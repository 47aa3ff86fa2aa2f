package gateway

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// decode 解析 JSON 并检查 `validate` 标签声明的必填字段。
// encoding/json 会忽略缺失字段，错误响应体（例如 {"errors":[...]}）需要靠必填字段识别出来。
func decode[T any](body []byte) (T, error) {
	var output T
	if err := json.Unmarshal(body, &output); err != nil {
		return zeroValue[T](), err
	}
	if err := checkRequired(reflect.ValueOf(&output).Elem()); err != nil {
		return zeroValue[T](), fmt.Errorf("response does not match %T: %w", output, err)
	}
	return output, nil
}

// checkRequired 校验 v 以及其中任意层级的切片元素、map 值。
// validator 只检查结构体本身及嵌套结构体字段，不会进入未标注 dive 的切片和 map。
func checkRequired(v reflect.Value) error {
	v = indirect(v)
	switch v.Kind() {
	case reflect.Struct:
		if v.Type().ConvertibleTo(timeType) {
			return nil
		}
		if err := validate.Struct(v.Interface()); err != nil {
			return err
		}
		return checkFields(v)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := checkRequired(v.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if err := checkRequired(iter.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkFields 遍历已通过 validate.Struct 的结构体，继续检查字段里的容器。
func checkFields(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		field := indirect(v.Field(i))
		switch field.Kind() {
		case reflect.Struct:
			if err := checkFields(field); err != nil {
				return fmt.Errorf("%s: %w", t.Field(i).Name, err)
			}
		case reflect.Slice, reflect.Array, reflect.Map:
			if err := checkRequired(field); err != nil {
				return fmt.Errorf("%s: %w", t.Field(i).Name, err)
			}
		}
	}
	return nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
