package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"mica/internal/project"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenCache("mica-test")
	be.Err(t, err, nil)
	return cache
}

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)
	return path
}

func TestCachePutGetRoundTrip(t *testing.T) {
	cache := testCache(t)
	key := project.HashBytes([]byte("int main() { return 0; }"))
	in := Payload{Schema: cacheSchema, Path: "main.mc", Assembly: "\t.text\n"}
	be.Err(t, cache.Put(key, &in), nil)

	var out Payload
	hit, err := cache.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, hit)
	be.Equal(t, out, in)
}

func TestCacheKeyMixesSchemaTag(t *testing.T) {
	content := project.HashBytes([]byte("int main() { return 0; }"))
	be.True(t, cacheKey(content) != content)
	be.Equal(t, cacheKey(content), cacheKey(content))
}

func TestCacheMissesCleanly(t *testing.T) {
	cache := testCache(t)

	var out Payload
	hit, err := cache.Get(project.HashBytes([]byte("never stored")), &out)
	be.Err(t, err, nil)
	be.True(t, !hit)
}

func TestNilCacheCachesNothing(t *testing.T) {
	var cache *Cache
	key := project.HashBytes([]byte("x"))
	be.Err(t, cache.Put(key, &Payload{Schema: cacheSchema}), nil)

	var out Payload
	hit, err := cache.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, !hit)
}

func TestCompileFileReusesCachedAssembly(t *testing.T) {
	cache := testCache(t)
	path := writeSource(t, t.TempDir(), "main.mc", "int main() { return 7; }")

	first, err := CompileFile(path, cache)
	be.Err(t, err, nil)
	be.True(t, !first.Cached)

	second, err := CompileFile(path, cache)
	be.Err(t, err, nil)
	be.True(t, second.Cached)
	be.Equal(t, second.Assembly, first.Assembly)
	be.Equal(t, second.Hash, first.Hash)
}

func TestCompileFileRecompilesOnContentChange(t *testing.T) {
	cache := testCache(t)
	dir := t.TempDir()
	path := writeSource(t, dir, "main.mc", "int main() { return 7; }")

	first, err := CompileFile(path, cache)
	be.Err(t, err, nil)

	writeSource(t, dir, "main.mc", "int main() { return 8; }")
	second, err := CompileFile(path, cache)
	be.Err(t, err, nil)
	be.True(t, !second.Cached)
	be.True(t, second.Hash != first.Hash)
	be.True(t, strings.Contains(second.Assembly, "li t0, 8"))
}

func TestCompileFileSurvivesCorruptEntry(t *testing.T) {
	cache := testCache(t)
	path := writeSource(t, t.TempDir(), "main.mc", "int main() { return 7; }")

	first, err := CompileFile(path, cache)
	be.Err(t, err, nil)

	// Clobber the stored entry; the next build treats it as a miss.
	be.Err(t, os.WriteFile(cache.pathFor(cacheKey(first.Hash)), []byte("not msgpack"), 0o644), nil)
	second, err := CompileFile(path, cache)
	be.Err(t, err, nil)
	be.True(t, !second.Cached)
	be.Equal(t, second.Assembly, first.Assembly)
}

func TestCompileFileWorksWithoutCache(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.mc", "int main() { return 7; }")

	art, err := CompileFile(path, nil)
	be.Err(t, err, nil)
	be.True(t, !art.Cached)
	be.True(t, strings.Contains(art.Assembly, ".global main"))
}

func TestCacheDrop(t *testing.T) {
	cache := testCache(t)
	key := project.HashBytes([]byte("entry"))
	be.Err(t, cache.Put(key, &Payload{Schema: cacheSchema, Path: "a.mc"}), nil)
	be.Err(t, cache.Drop(), nil)

	var out Payload
	hit, err := cache.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, !hit)
}
