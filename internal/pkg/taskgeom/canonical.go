package taskgeom

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// StripTasks оставляет от документа только идентификаторы задач и их геометрию.
// Строки вида {"taskID": <id>, "geometry": <geometry>} сортируются,
// поэтому порядок задач и пробелы в исходнике не влияют на результат.
func StripTasks(data []byte) (string, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return "", err
	}
	return doc.Strip(), nil
}

// Strip - каноническая строка задач документа
func (d *Document) Strip() string {
	lines := make([]string, 0, len(d.Tasks.Features))
	for _, f := range d.Tasks.Features {
		lines = append(lines, taskLine(f))
	}
	sort.Strings(lines)

	return strings.Join(lines, "\n")
}

// Checksum возвращает hex MD5 строки
func Checksum(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Equal сравнивает геометрию задач двух документов по контрольной сумме
func Equal(a, b []byte) (bool, error) {
	sa, err := StripTasks(a)
	if err != nil {
		return false, err
	}
	sb, err := StripTasks(b)
	if err != nil {
		return false, err
	}
	return Checksum(sa) == Checksum(sb), nil
}

func taskLine(f *geojson.Feature) string {
	var sb strings.Builder
	sb.WriteString(`{"taskID": `)
	writeValue(&sb, f.Properties["taskId"])
	sb.WriteString(`, "geometry": `)
	writeGeometry(&sb, f.Geometry)
	sb.WriteString("}")
	return sb.String()
}

func writeGeometry(sb *strings.Builder, g orb.Geometry) {
	if g == nil {
		sb.WriteString("null")
		return
	}

	sb.WriteString(`{"type": "`)
	sb.WriteString(g.GeoJSONType())
	sb.WriteString(`", `)

	if c, ok := g.(orb.Collection); ok {
		sb.WriteString(`"geometries": [`)
		for i, child := range c {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeGeometry(sb, child)
		}
		sb.WriteString("]}")
		return
	}

	sb.WriteString(`"coordinates": `)
	writeCoordinates(sb, g)
	sb.WriteString("}")
}

func writeCoordinates(sb *strings.Builder, g orb.Geometry) {
	switch v := g.(type) {
	case orb.Point:
		writePoint(sb, v)
	case orb.MultiPoint:
		writePoints(sb, v)
	case orb.LineString:
		writePoints(sb, v)
	case orb.Ring:
		writePoints(sb, v)
	case orb.MultiLineString:
		sb.WriteByte('[')
		for i, ls := range v {
			if i > 0 {
				sb.WriteString(", ")
			}
			writePoints(sb, ls)
		}
		sb.WriteByte(']')
	case orb.Polygon:
		writePolygon(sb, v)
	case orb.MultiPolygon:
		sb.WriteByte('[')
		for i, p := range v {
			if i > 0 {
				sb.WriteString(", ")
			}
			writePolygon(sb, p)
		}
		sb.WriteByte(']')
	case orb.Bound:
		writePolygon(sb, v.ToPolygon())
	default:
		sb.WriteString("null")
	}
}

func writePolygon(sb *strings.Builder, p orb.Polygon) {
	sb.WriteByte('[')
	for i, r := range p {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePoints(sb, r)
	}
	sb.WriteByte(']')
}

func writePoints(sb *strings.Builder, pts []orb.Point) {
	sb.WriteByte('[')
	for i, p := range pts {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePoint(sb, p)
	}
	sb.WriteByte(']')
}

func writePoint(sb *strings.Builder, p orb.Point) {
	sb.WriteByte('[')
	sb.WriteString(formatFloat(p[0]))
	sb.WriteString(", ")
	sb.WriteString(formatFloat(p[1]))
	sb.WriteByte(']')
}

func writeValue(sb *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			sb.WriteString(strconv.FormatInt(int64(val), 10))
		} else {
			sb.WriteString(formatFloat(val))
		}
	case int:
		sb.WriteString(strconv.Itoa(val))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case string:
		sb.WriteString(strconv.Quote(val))
	case bool:
		sb.WriteString(strconv.FormatBool(val))
	default:
		sb.WriteString("null")
	}
}

// formatFloat печатает кратчайшее точное представление числа: фиксированная
// запись при показателе в [-4, 16), иначе экспоненциальная; целые значения
// получают суффикс ".0"
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}

	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
