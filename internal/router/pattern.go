package router

import (
	"fmt"
	"strings"

	"ember/internal/httpwire"
)

type segKind uint8

const (
	segStatic segKind = iota
	segParam
	segWildcard // "path"-typed parameter: greedily captures the remainder, slashes included
)

type segment struct {
	kind    segKind
	literal string // for segStatic
	name    string // for segParam/segWildcard
	typ     httpwire.ParamKind
}

// parsePattern splits a registered route pattern into segments. Parameter
// segments are written "{name}" (defaulting to the str type) or
// "{name:type}" where type is one of str, int, uint, float, uuid, path
// (spec §3/§4.4). A "path" typed segment must be the pattern's final
// segment, since it captures everything remaining including slashes.
func parsePattern(pattern string) ([]segment, error) {
	pattern, err := normalizePath(pattern)
	if err != nil {
		return nil, err
	}
	if pattern == "/" {
		return nil, nil
	}

	parts := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	segments := make([]segment, 0, len(parts))

	for i, part := range parts {
		if len(part) >= 2 && part[0] == '{' && part[len(part)-1] == '}' {
			inner := part[1 : len(part)-1]
			name, typ := inner, "str"
			if idx := strings.IndexByte(inner, ':'); idx >= 0 {
				name, typ = inner[:idx], inner[idx+1:]
			}
			if name == "" {
				return nil, fmt.Errorf("router: empty parameter name in pattern %q", pattern)
			}

			kind, paramKind, err := paramKindFor(typ)
			if err != nil {
				return nil, fmt.Errorf("router: pattern %q: %w", pattern, err)
			}
			if kind == segWildcard && i != len(parts)-1 {
				return nil, fmt.Errorf("router: pattern %q: path-typed parameter %q must be the final segment", pattern, name)
			}

			segments = append(segments, segment{kind: kind, name: name, typ: paramKind})
			continue
		}

		segments = append(segments, segment{kind: segStatic, literal: part})
	}

	return segments, nil
}

func paramKindFor(typ string) (segKind, httpwire.ParamKind, error) {
	switch typ {
	case "str":
		return segParam, httpwire.ParamStr, nil
	case "int":
		return segParam, httpwire.ParamInt, nil
	case "uint":
		return segParam, httpwire.ParamUint, nil
	case "float":
		return segParam, httpwire.ParamFloat, nil
	case "uuid":
		return segParam, httpwire.ParamUUID, nil
	case "path":
		return segWildcard, httpwire.ParamPath, nil
	default:
		return 0, 0, fmt.Errorf("unknown parameter type %q", typ)
	}
}

// errPathEscapesRoot is returned by normalizePath when a ".." segment would
// pop past the root, per spec §4.4 ("'..' segments pop the previous, or
// fail with BadRequest if they would escape the root") and the §7 error
// table (BadRequest -> 400, connection closed).
var errPathEscapesRoot = fmt.Errorf("router: path escapes root")

// normalizePath collapses an empty path to "/", ensures a leading slash,
// and resolves "." and ".." segments. Trailing slashes are preserved
// verbatim: "/widgets" and "/widgets/" are distinct routes (spec §8). A
// ".." segment with nothing left to pop is an error rather than something
// silently dropped.
func normalizePath(p string) (string, error) {
	if p == "" {
		return "/", nil
	}
	if p[0] != '/' {
		p = "/" + p
	}

	trailingSlash := len(p) > 1 && p[len(p)-1] == '/'

	parts := strings.Split(p, "/")
	resolved := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(resolved) == 0 {
				return "", errPathEscapesRoot
			}
			resolved = resolved[:len(resolved)-1]
		default:
			resolved = append(resolved, part)
		}
	}

	out := "/" + strings.Join(resolved, "/")
	if trailingSlash && out != "/" {
		out += "/"
	}
	return out, nil
}

// typePrecedence orders typed-parameter matches ahead of each other when
// more than one typed child could match the same segment (spec §4.4:
// "int < uint < float < uuid < str"). Lower values are tried first.
func typePrecedence(k httpwire.ParamKind) int {
	switch k {
	case httpwire.ParamInt:
		return 0
	case httpwire.ParamUint:
		return 1
	case httpwire.ParamFloat:
		return 2
	case httpwire.ParamUUID:
		return 3
	case httpwire.ParamStr:
		return 4
	default:
		return 5
	}
}
