// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-viper/mapstructure/v2"
)

// Values holds coerced parameter values keyed by parameter name.
type Values map[string]any

// paramTag names the struct tag shared by mapstructure and validator.
const paramTag = "param"

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func paramValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		enLoc := en.New()
		trans, _ := ut.New(enLoc, enLoc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get(paramTag), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		// bigint_gte0 rejects negative amounts
		_ = v.RegisterValidation("bigint_gte0", func(fl validator.FieldLevel) bool {
			switch n := fl.Field().Interface().(type) {
			case big.Int:
				return n.Sign() >= 0
			case *big.Int:
				return n == nil || n.Sign() >= 0
			}
			return true
		})
		_ = v.RegisterTranslation("bigint_gte0", trans,
			func(ut ut.Translator) error {
				return ut.Add("bigint_gte0", "{0} must not be negative", true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T("bigint_gte0", fe.Field())
				return msg
			},
		)

		validate, translator = v, trans
	})
	return validate, translator
}

// Decode fills out (a pointer to a per-operation params struct) from values
// and validates it. Fields are matched by their `param` tag.
func Decode(values Values, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    paramTag,
		Result:     out,
		DecodeHook: bigIntHook,
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(values)); err != nil {
		return &Error{
			Type:    ErrorTypeCoercion,
			Message: "parameters do not match the operation",
			Cause:   err,
		}
	}

	v, trans := paramValidator()
	if err := v.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return NewValidationError(fe.Field(), fe.Translate(trans))
		}
		return fmt.Errorf("validating parameters: %w", err)
	}
	return nil
}

var bigIntType = reflect.TypeOf(big.Int{})

// bigIntHook passes *big.Int through unchanged and parses decimal strings.
func bigIntHook(from, to reflect.Type, data any) (any, error) {
	if to != bigIntType && (to.Kind() != reflect.Ptr || to.Elem() != bigIntType) {
		return data, nil
	}
	switch v := data.(type) {
	case *big.Int:
		if to == bigIntType {
			return *v, nil
		}
		return v, nil
	case string:
		n, ok := ParseBigInt(v)
		if !ok {
			return nil, fmt.Errorf("%q is not a base-10 integer", v)
		}
		if to == bigIntType {
			return *n, nil
		}
		return n, nil
	}
	return data, nil
}
