package assets

import "errors"

// Resolver serves assets from a user directory when one is configured,
// falling back to the built-in set for names the directory lacks.
type Resolver struct {
	dir      Loader // nil without --asset-path
	embedded Loader
}

// NewResolver returns a Resolver over dir. An empty dir means built-in
// assets only; a dir that is not a readable directory is an error.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if dir == "" {
		return r, nil
	}
	fsys, err := NewFilesystemLoader(dir)
	if err != nil {
		return nil, err
	}
	r.dir = fsys
	return r, nil
}

func (r *Resolver) LoadStyle(name string) (string, error) {
	return r.load(func(l Loader) (string, error) { return l.LoadStyle(name) })
}

func (r *Resolver) LoadTemplate(name string) (string, error) {
	return r.load(func(l Loader) (string, error) { return l.LoadTemplate(name) })
}

// Custom reports whether a user asset directory is in use.
func (r *Resolver) Custom() bool {
	return r.dir != nil
}

func (r *Resolver) load(fn func(Loader) (string, error)) (string, error) {
	if r.dir == nil {
		return fn(r.embedded)
	}
	src, err := fn(r.dir)
	// Bad names and read failures are reported, not masked by the fallback.
	if err == nil || !(errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)) {
		return src, err
	}
	return fn(r.embedded)
}

var _ Loader = (*Resolver)(nil)
