package fbx

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var escaper = strings.NewReplacer("\"", "&quot;", "\r", "&cr;", "\n", "&lf;")

func formatFloat(v float64, bits int) string {
	return strconv.FormatFloat(v, 'g', -1, bits)
}

func formatString(s string) string {
	if name, class, ok := strings.Cut(s, "\x00\x01"); ok {
		s = class + "::" + name
	}
	return "\"" + escaper.Replace(s) + "\""
}

func formatArray[T any](w io.Writer, values []T, f func(T) string) {
	fmt.Fprintf(w, "*%d {\n", len(values))
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f(v))
	}
	fmt.Fprintf(w, "a: %s\n}", sb.String())
}

func formatValue(w io.Writer, v any) {
	switch v := v.(type) {
	case bool:
		if v {
			io.WriteString(w, "T")
		} else {
			io.WriteString(w, "F")
		}
	case int16, int32, int64, int:
		fmt.Fprint(w, v)
	case float32:
		io.WriteString(w, formatFloat(float64(v), 32))
	case float64:
		io.WriteString(w, formatFloat(v, 64))
	case string:
		io.WriteString(w, formatString(v))
	case []byte:
		io.WriteString(w, formatString(string(v)))
	case []bool:
		formatArray(w, v, func(b bool) string {
			if b {
				return "1"
			}
			return "0"
		})
	case []int32:
		formatArray(w, v, func(i int32) string { return strconv.FormatInt(int64(i), 10) })
	case []int64:
		formatArray(w, v, func(i int64) string { return strconv.FormatInt(i, 10) })
	case []float32:
		formatArray(w, v, func(f float32) string { return formatFloat(float64(f), 32) })
	case []float64:
		formatArray(w, v, func(f float64) string { return formatFloat(f, 64) })
	default:
		fmt.Fprintf(w, "%q", fmt.Sprint(v))
	}
}

func (n *Node) Dump(w io.Writer, d int) {
	fmt.Fprint(w, strings.Repeat("\t", d), n.Name, ":")
	for i, a := range n.Attributes {
		if i == 0 {
			io.WriteString(w, " ")
		} else {
			io.WriteString(w, ", ")
		}
		formatValue(w, a.Value)
	}
	if len(n.Children) > 0 || len(n.Attributes) == 0 {
		fmt.Fprintln(w, " {")
		for _, c := range n.Children {
			c.Dump(w, d+1)
		}
		fmt.Fprintln(w, strings.Repeat("\t", d)+"}")
	} else {
		fmt.Fprintln(w, "")
	}
}

func writeText(out io.Writer, root *Node, creator string) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "; FBX %d.%d.0 project file\n", binaryVersion/1000, binaryVersion%1000/100)
	fmt.Fprintln(w, "; Generator:", creator)
	fmt.Fprintln(w, "; ----------------------------------------------------")
	fmt.Fprintln(w)
	for _, n := range root.Children {
		if n.Name != "FileId" {
			n.Dump(w, 0)
		}
	}
	return w.Flush()
}
