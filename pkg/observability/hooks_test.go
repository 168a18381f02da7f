package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopCompileHooks{}
	c.OnStageStart(ctx, StageParse)
	c.OnStageComplete(ctx, StageLayout, time.Second, nil)
	c.OnCompileComplete(ctx, 3, 2, time.Second, errors.New("boom"))

	k := NoopCacheHooks{}
	k.OnCacheHit(ctx, "layout")
	k.OnCacheMiss(ctx, "artifact")
	k.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/graph")
	h.OnResponse(ctx, "POST", "/graph", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Compile().(NoopCompileHooks); !ok {
		t.Error("Compile() should return NoopCompileHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customCompile := &testCompileHooks{}
	SetCompileHooks(customCompile)
	if Compile() != customCompile {
		t.Error("SetCompileHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Compile().(NoopCompileHooks); !ok {
		t.Error("Reset() should restore NoopCompileHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testCompileHooks{}
	SetCompileHooks(custom)
	SetCompileHooks(nil)

	if Compile() != custom {
		t.Error("SetCompileHooks(nil) should be ignored")
	}
}

type testCompileHooks struct{ NoopCompileHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
