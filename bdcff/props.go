// This file contains the property reflection layer: descriptor tables that
// map BDCFF attribute names to typed fields of caves, cavesets and replays,
// driving both load and save.

package bdcff

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/gdash/gdash/cave/cavecore"
)

// PropType is the value type of a property table entry.
type PropType int

// The property value types.
const (
	TypeBool PropType = iota
	TypeInt

	// TypeProbability is stored as parts per million (0..1e6) and
	// serialized as 0.0..1.0 with 5 fraction digits.
	TypeProbability

	// TypeRatio is a fraction of the cave area, stored as an absolute cell
	// count scaled by the cave's w*h.
	TypeRatio

	TypeElement
	TypeDirection
	TypeScheduling
	TypeColor

	// TypeEffect is an element saved as "Effect=<identifier> <element>".
	TypeEffect

	// TypeString occupies the rest of the line.
	TypeString

	// TypeLongString is escape-encoded and may contain embedded newlines.
	TypeLongString
)

// PropFlags are the save-behavior flags of a table entry.
type PropFlags int

const (
	// AlwaysSave forces the line into the output even when all its values
	// equal the defaults.
	AlwaysSave PropFlags = 1 << iota

	// DontSave excludes the entry from the property save pass; the codec
	// handles it explicitly.
	DontSave
)

// PropDesc describes one property: a BDCFF identifier bound to a struct
// field. Consecutive entries with the same identifier form one attribute
// line whose parameters are consumed in table order.
type PropDesc struct {
	// Identifier is the BDCFF attribute name, matched case-insensitively.
	Identifier string

	// Type of the bound value.
	Type PropType

	// Field is the Go field name on the described struct.
	Field string

	// Count is the number of values; >1 binds an array field.
	Count int

	// Index binds a single slot of an array field when Count is 1.
	Index int

	// Flags modify save behavior.
	Flags PropFlags
}

// fieldValue returns the reflect value of the j-th bound slot of desc on
// target (a pointer to the described struct).
func fieldValue(target any, desc *PropDesc, j int) reflect.Value {
	v := reflect.ValueOf(target).Elem().FieldByName(desc.Field)
	if !v.IsValid() {
		panic("bdcff: property table references unknown field " + desc.Field)
	}
	if desc.Count > 1 {
		return v.Index(j)
	}
	if v.Kind() == reflect.Array {
		return v.Index(desc.Index)
	}
	return v
}

// parseBool parses the accepted boolean spellings.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}
	return false, false
}

// SetProperty sets one property of target from a whitespace-split parameter
// list. All table entries matching the identifier are processed in order,
// sharing the parameter cursor; if fewer parameters than slots are present,
// the last parsed value fills the remaining slots. It reports whether the
// identifier was found in the table; parse problems are warnings.
func SetProperty(target any, table []PropDesc, identifier, param string, ratio int, log *Logger) bool {
	params := strings.Fields(param)
	paramIndex := 0
	found := false
	wasString := false

	for i := range table {
		desc := &table[i]
		if !strings.EqualFold(desc.Identifier, identifier) {
			continue
		}
		found = true

		switch desc.Type {
		case TypeString:
			// strings occupy the whole remainder of the line
			fieldValue(target, desc, 0).SetString(strings.TrimSpace(param))
			wasString = true
			continue
		case TypeLongString:
			fieldValue(target, desc, 0).SetString(unescapeString(strings.TrimSpace(param)))
			wasString = true
			continue
		}

		for j := 0; j < desc.Count && paramIndex < len(params); j++ {
			p := params[paramIndex]
			success := false

			switch desc.Type {
			case TypeBool:
				if b, ok := parseBool(p); ok {
					for k := j; k < desc.Count; k++ {
						fieldValue(target, desc, k).SetBool(b)
					}
					success = true
				}

			case TypeInt:
				if n, err := strconv.Atoi(p); err == nil {
					for k := j; k < desc.Count; k++ {
						setInt(fieldValue(target, desc, k), n)
					}
					success = true
				}

			case TypeProbability:
				if f, err := strconv.ParseFloat(p, 64); err == nil && f >= 0 && f <= 1 {
					for k := j; k < desc.Count; k++ {
						setInt(fieldValue(target, desc, k), int(f*1e6+0.5))
					}
					success = true
				}

			case TypeRatio:
				if f, err := strconv.ParseFloat(p, 64); err == nil && f >= 0 && f <= 1 {
					for k := j; k < desc.Count; k++ {
						setInt(fieldValue(target, desc, k), int(f*float64(ratio)+0.5))
					}
					success = true
				}

			case TypeElement, TypeEffect:
				if e, ok := cavecore.ElementByName(p); ok {
					for k := j; k < desc.Count; k++ {
						fieldValue(target, desc, k).Set(reflect.ValueOf(e))
					}
					success = true
				} else {
					log.Warn("unknown element name '%s' for attribute %s", p, identifier)
					paramIndex++ // the parameter is consumed, the field keeps its value
					continue
				}

			case TypeDirection:
				if d, ok := cavecore.DirectionByName(p); ok {
					for k := j; k < desc.Count; k++ {
						fieldValue(target, desc, k).Set(reflect.ValueOf(d))
					}
					success = true
				} else {
					log.Warn("unknown direction '%s' for attribute %s", p, identifier)
					paramIndex++
					continue
				}

			case TypeScheduling:
				if s, ok := cavecore.SchedulingByName(p); ok {
					for k := j; k < desc.Count; k++ {
						fieldValue(target, desc, k).Set(reflect.ValueOf(s))
					}
					success = true
				} else {
					log.Warn("unknown scheduling '%s' for attribute %s", p, identifier)
					paramIndex++
					continue
				}

			case TypeColor:
				c := cavecore.ColorByName(p)
				// unknown colors are assigned; the Colors= handler checks
				// and substitutes a random scheme
				for k := j; k < desc.Count; k++ {
					fieldValue(target, desc, k).Set(reflect.ValueOf(c))
				}
				success = true
			}

			if success {
				paramIndex++
			} else {
				log.Warn("invalid parameter '%s' for attribute %s", p, identifier)
				paramIndex++
			}
		}
	}

	if found && !wasString && paramIndex < len(params) {
		log.Warn("excess parameters for attribute '%s': '%s'", identifier, params[paramIndex])
	}
	return found
}

// setInt stores n into an int-kind or uint-kind field.
func setInt(v reflect.Value, n int) {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 {
			n = 0
		}
		v.SetUint(uint64(n))
	default:
		v.SetInt(int64(n))
	}
}

// getInt reads an int-kind or uint-kind field.
func getInt(v reflect.Value) int {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint())
	default:
		return int(v.Int())
	}
}

// HasProperty reports whether the identifier appears in the table.
func HasProperty(table []PropDesc, identifier string) bool {
	for i := range table {
		if strings.EqualFold(table[i].Identifier, identifier) {
			return true
		}
	}
	return false
}

// SaveProperties serializes the properties of target into attribute lines
// appended to out. defaults is a default-constructed instance; a line is
// emitted only if any of its values differs from the default, or an entry
// carries AlwaysSave. Consecutive entries with the same identifier are
// gathered into one line.
func SaveProperties(out []string, target, defaults any, table []PropDesc, ratio int) []string {
	var line strings.Builder
	identifier := ""
	shouldWrite := false
	written := false

	flush := func() {
		if shouldWrite {
			out = append(out, line.String())
		}
	}

	for i := range table {
		desc := &table[i]

		if desc.Flags&DontSave != 0 {
			continue
		}

		if desc.Type == TypeString || desc.Type == TypeLongString {
			s := fieldValue(target, desc, 0).String()
			if s == "" {
				continue
			}
			if desc.Type == TypeLongString {
				s = escapeString(s)
			}
			out = append(out, desc.Identifier+"="+s)
			continue
		}

		if identifier == "" || !strings.EqualFold(desc.Identifier, identifier) {
			flush()
			line.Reset()
			if desc.Type == TypeEffect {
				line.WriteString("Effect=")
			} else {
				line.WriteString(desc.Identifier + "=")
			}
			written = false
			shouldWrite = false
			identifier = desc.Identifier
		}

		if desc.Flags&AlwaysSave != 0 {
			shouldWrite = true
		}

		for j := 0; j < desc.Count; j++ {
			if written {
				line.WriteByte(' ')
			}
			written = true

			v := fieldValue(target, desc, j)
			d := fieldValue(defaults, desc, j)

			switch desc.Type {
			case TypeBool:
				if v.Bool() {
					line.WriteString("true")
				} else {
					line.WriteString("false")
				}
				if v.Bool() != d.Bool() {
					shouldWrite = true
				}

			case TypeInt:
				line.WriteString(strconv.Itoa(getInt(v)))
				if getInt(v) != getInt(d) {
					shouldWrite = true
				}

			case TypeProbability:
				line.WriteString(formatFraction(getInt(v), 1e6))
				if getInt(v) != getInt(d) {
					shouldWrite = true
				}

			case TypeRatio:
				line.WriteString(formatFraction(getInt(v), ratio))
				if getInt(v) != getInt(d) {
					shouldWrite = true
				}

			case TypeElement:
				line.WriteString(v.Interface().(cavecore.Element).String())
				if getInt(v) != getInt(d) {
					shouldWrite = true
				}

			case TypeEffect:
				line.WriteString(desc.Identifier + " " + v.Interface().(cavecore.Element).String())
				if getInt(v) != getInt(d) {
					shouldWrite = true
				}

			case TypeDirection:
				line.WriteString(v.Interface().(cavecore.Direction).String())
				if getInt(v) != getInt(d) {
					shouldWrite = true
				}

			case TypeScheduling:
				line.WriteString(v.Interface().(cavecore.Scheduling).String())
				if getInt(v) != getInt(d) {
					shouldWrite = true
				}

			case TypeColor:
				line.WriteString(v.Interface().(cavecore.Color).String())
				if v.Interface().(cavecore.Color) != d.Interface().(cavecore.Color) {
					shouldWrite = true
				}
			}
		}
	}
	flush()
	return out
}

// formatFraction formats value/denominator with 5 fraction digits.
func formatFraction(value, denominator int) string {
	if denominator == 0 {
		return "0.00000"
	}
	return fmt.Sprintf("%.5f", float64(value)/float64(denominator))
}

// escapeString encodes a long string for a single BDCFF line: backslashes,
// newlines, tabs and quotes become escape sequences.
func escapeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '"':
			sb.WriteString(`\"`)
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// unescapeString is the inverse of escapeString. Unknown escapes keep the
// escaped character.
func unescapeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '\\' || i+1 >= len(s) {
			sb.WriteByte(ch)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
