package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shouni/gemini-brand-kit/pkg/asset"
	"github.com/shouni/gemini-brand-kit/pkg/domain"
	"github.com/shouni/gemini-brand-kit/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const original = "data:image/png;base64,AAAA"

func newSession(t *testing.T, gen *fakeGenerator, opts ...Option) *Session {
	t.Helper()
	s, err := New(gen, opts...)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	s := newSession(t, &fakeGenerator{})
	_, err = uuid.Parse(s.ID())
	assert.NoError(t, err)
	assert.Equal(t, ModeCreate, s.Mode())
}

func TestSession_UploadLogo(t *testing.T) {
	s := newSession(t, &fakeGenerator{})
	s.SetBrief(domain.DesignBrief{BrandName: "Old"})

	require.NoError(t, s.UploadLogo(original))

	assert.Equal(t, ModeEdit, s.Mode())
	assert.Equal(t, original, s.Image())
	assert.Equal(t, []EditEntry{{Instruction: OriginalInstruction, ResultImage: original}}, s.History())
	assert.Empty(t, s.Brief().BrandName, "取り込み前の状態は破棄されるのだ")

	assert.Len(t, s.Mockups().Keys(), len(domain.MockupTypes))
	assert.Len(t, s.Variations().Keys(), len(domain.VariationKinds))
	st, ok := s.Mockups().Get(string(domain.MockupCoffeeCup))
	require.True(t, ok)
	assert.Equal(t, asset.StatusIdle, st.Status)
	_, ok = s.SocialPost().Get(KeySocialPost)
	assert.True(t, ok)

	err := s.UploadLogo("not an image")
	assert.Equal(t, generator.FailureInvalidImageData, generator.KindOf(err))
	assert.Equal(t, original, s.Image())
}

func TestSession_EditAndRevert(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, &fakeGenerator{})
	require.NoError(t, s.UploadLogo(original))

	e1, err := s.Edit(ctx, "e1")
	require.NoError(t, err)
	_, err = s.Edit(ctx, "e2")
	require.NoError(t, err)
	require.Len(t, s.History(), 3)

	require.NoError(t, s.Revert(1))
	assert.Equal(t, e1, s.Image())
	assert.Equal(t, []string{OriginalInstruction, "e1"}, instructions(s.History()))

	_, err = s.Edit(ctx, "e3")
	require.NoError(t, err)
	assert.Equal(t, []string{OriginalInstruction, "e1", "e3"}, instructions(s.History()))

	assert.ErrorIs(t, s.Revert(3), ErrHistoryIndex)
	assert.ErrorIs(t, s.Revert(-1), ErrHistoryIndex)

	require.NoError(t, s.Revert(0))
	assert.Equal(t, original, s.Image())
	assert.Len(t, s.History(), 1)
}

func TestSession_EditFailure(t *testing.T) {
	ctx := context.Background()
	blocked := generator.NewFailure(generator.FailureSafetyBlocked, "request blocked for safety concerns")
	s := newSession(t, &fakeGenerator{
		editLogo: func(domain.ImageInput, string) (string, error) { return "", blocked },
	})

	_, err := s.Edit(ctx, "x")
	assert.ErrorIs(t, err, ErrNoImage)

	require.NoError(t, s.UploadLogo(original))
	_, err = s.Edit(ctx, "make it blue")

	assert.ErrorIs(t, err, blocked)
	assert.Len(t, s.History(), 1)
	assert.Equal(t, original, s.Image())
	st, _ := s.Actions().Get(ActionEdit)
	assert.Equal(t, asset.State[string]{Status: asset.StatusError, Error: "request blocked for safety concerns"}, st)
}

func TestSession_CreateLogo(t *testing.T) {
	ctx := context.Background()

	t.Run("成功すると作業中の画像になる", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := newSession(t, gen)
		s.SetBrief(domain.DesignBrief{BrandName: "Kitsune", Industry: "coffee"})

		url, err := s.CreateLogo(ctx)

		require.NoError(t, err)
		assert.Equal(t, url, s.Image())
		assert.Equal(t, []string{OriginalInstruction}, instructions(s.History()))
		st, _ := s.Actions().Get(ActionCreate)
		assert.Equal(t, asset.StatusSuccess, st.Status)
	})

	t.Run("失敗すると画像もブランドキットも残らない", func(t *testing.T) {
		gen := &fakeGenerator{
			createLogo: func(domain.DesignBrief) (string, error) {
				return "", generator.NewFailure(generator.FailureNoImageProducible, "rephrase")
			},
		}
		s := newSession(t, gen)
		require.NoError(t, s.UploadLogo(original))
		_, err := s.BuildBrandKit(ctx)
		require.NoError(t, err)

		_, err = s.CreateLogo(ctx)

		assert.Equal(t, generator.FailureNoImageProducible, generator.KindOf(err))
		assert.Empty(t, s.Image())
		_, ok := s.BrandKit()
		assert.False(t, ok)
		st, _ := s.Actions().Get(ActionCreate)
		assert.Equal(t, "rephrase", st.Error)
	})
}

func TestSession_SetMode(t *testing.T) {
	s := newSession(t, &fakeGenerator{})
	s.SetBrief(domain.DesignBrief{BrandName: "Kitsune"})

	s.SetMode(ModeCreate)
	assert.Equal(t, "Kitsune", s.Brief().BrandName, "同じモードでは何も消さないのだ")

	s.SetMode(ModeEdit)
	assert.Equal(t, ModeEdit, s.Mode())
	assert.Empty(t, s.Brief().BrandName)
}

func TestSession_AssetFailuresAreIsolated(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{
		mockup: func(mt domain.MockupType) (string, error) {
			if mt == domain.MockupCoffeeCup {
				return "", generator.NewFailure(generator.FailureSafetyBlocked, "blocked")
			}
			return "mockup:" + string(mt), nil
		},
		socialPost: func() (domain.SocialPost, error) {
			return domain.SocialPost{}, generator.NewFailure(generator.FailureMalformedResponse, "bad caption")
		},
	}
	s := newSession(t, gen)

	assert.ErrorIs(t, s.GenerateMockup(ctx, domain.MockupTShirt, nil), ErrNoImage)
	require.NoError(t, s.UploadLogo(original))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i, fn := range []func() error{
		func() error { return s.GenerateMockup(ctx, domain.MockupCoffeeCup, nil) },
		func() error { return s.GenerateMockup(ctx, domain.MockupTShirt, nil) },
		func() error { return s.GenerateSocialPost(ctx) },
		func() error { return s.GenerateVariation(ctx, domain.VariationWhite) },
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}
	wg.Wait()

	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Error(t, errs[2])
	assert.NoError(t, errs[3])

	cup, _ := s.Mockups().Get(string(domain.MockupCoffeeCup))
	assert.Equal(t, asset.State[string]{Status: asset.StatusError, Error: "blocked"}, cup)
	shirt, _ := s.Mockups().Get(string(domain.MockupTShirt))
	assert.Equal(t, asset.State[string]{Status: asset.StatusSuccess, Value: "mockup:T-Shirt"}, shirt)
	tote, _ := s.Mockups().Get(string(domain.MockupToteBag))
	assert.Equal(t, asset.StatusIdle, tote.Status)

	post, _ := s.SocialPost().Get(KeySocialPost)
	assert.Equal(t, asset.StatusError, post.Status)
	assert.Zero(t, post.Value, "片方だけの結果は公開されないのだ")

	white, _ := s.Variations().Get(string(domain.VariationWhite))
	assert.Equal(t, "variation:white", white.Value)

	require.NoError(t, s.GenerateGuidelines(ctx))
	g, _ := s.Guidelines().Get(KeyGuidelines)
	assert.Equal(t, "Warm", g.Value.Philosophy)
}

func TestSession_SuggestNameAndSlogans(t *testing.T) {
	ctx := context.Background()

	t.Run("create モードは依頼内容から提案する", func(t *testing.T) {
		s := newSession(t, &fakeGenerator{})
		s.SetBrief(domain.DesignBrief{Industry: "coffee"})

		name, err := s.SuggestName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Name for coffee", name)
		assert.Equal(t, name, s.Brief().BrandName)

		slogans, err := s.SuggestSlogans(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Name for coffee one", "Name for coffee two"}, slogans)
		assert.Equal(t, slogans, s.Slogans())

		s.SelectSlogan(slogans[1])
		assert.Equal(t, "Name for coffee two", s.Brief().Slogan)
	})

	t.Run("edit モードはロゴから提案する", func(t *testing.T) {
		gen := &fakeGenerator{}
		s := newSession(t, gen)
		s.SetMode(ModeEdit)

		_, err := s.SuggestName(ctx)
		assert.ErrorIs(t, err, ErrNoImage)

		require.NoError(t, s.UploadLogo(original))
		name, err := s.SuggestName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Logo Name", name)

		slogans, err := s.SuggestSlogans(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"from logo"}, slogans)
		assert.Contains(t, gen.calls, "SuggestSlogansFromLogo")
	})
}

func TestSession_ResetDiscardsInFlightResults(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := newSession(t, &fakeGenerator{
		editLogo: func(domain.ImageInput, string) (string, error) {
			close(started)
			<-release
			return "late", nil
		},
	})
	require.NoError(t, s.UploadLogo(original))

	done := make(chan error, 1)
	go func() {
		_, err := s.Edit(context.Background(), "slow edit")
		done <- err
	}()

	<-started
	s.Reset()
	close(release)

	assert.ErrorIs(t, <-done, ErrDiscarded)
	assert.Empty(t, s.Image())
	assert.Empty(t, s.History())
	_, ok := s.Actions().Get(ActionEdit)
	assert.False(t, ok)
}

// gate は呼び出しごとに開始を知らせ、解放されるまで止めておくのだ。
type gate struct {
	mu      sync.Mutex
	calls   int
	entered []chan struct{}
	release []chan struct{}
}

func newGate(n int) *gate {
	g := &gate{}
	for range n {
		g.entered = append(g.entered, make(chan struct{}))
		g.release = append(g.release, make(chan struct{}))
	}
	return g
}

// wait は呼び出し番号を返し、その番号の解放まで待つのだ。
func (g *gate) wait() int {
	g.mu.Lock()
	n := g.calls
	g.calls++
	g.mu.Unlock()

	close(g.entered[n])
	<-g.release[n]
	return n
}

func (g *gate) awaitEntered(t *testing.T, n int) {
	t.Helper()
	select {
	case <-g.entered[n]:
	case <-time.After(time.Second):
		t.Fatalf("call %d did not start", n)
	}
}

func TestSession_ResetDiscardsLateAssetResults(t *testing.T) {
	g := newGate(2)
	s := newSession(t, &fakeGenerator{
		mockup: func(domain.MockupType) (string, error) {
			if g.wait() == 0 {
				return "mockup-of-old-logo", nil
			}
			return "mockup-of-new-logo", nil
		},
	})
	ctx := context.Background()
	require.NoError(t, s.UploadLogo(original))

	oldDone := make(chan error, 1)
	go func() { oldDone <- s.GenerateMockup(ctx, domain.MockupBusinessCard, nil) }()
	g.awaitEntered(t, 0)

	s.Reset()
	require.NoError(t, s.UploadLogo("data:image/png;base64,BBBB"))

	newDone := make(chan error, 1)
	go func() { newDone <- s.GenerateMockup(ctx, domain.MockupBusinessCard, nil) }()
	g.awaitEntered(t, 1)

	close(g.release[0])
	assert.ErrorIs(t, <-oldDone, ErrDiscarded)

	st, _ := s.Mockups().Get(string(domain.MockupBusinessCard))
	assert.Equal(t, asset.State[string]{Status: asset.StatusLoading}, st, "古いロゴのモックアップは新しい状態に入らないのだ")

	close(g.release[1])
	require.NoError(t, <-newDone)
	st, _ = s.Mockups().Get(string(domain.MockupBusinessCard))
	assert.Equal(t, "mockup-of-new-logo", st.Value)
}

func TestSession_ResetDiscardsLateFailures(t *testing.T) {
	g := newGate(2)
	blocked := generator.NewFailure(generator.FailureSafetyBlocked, "blocked")
	s := newSession(t, &fakeGenerator{
		editLogo: func(_ domain.ImageInput, instruction string) (string, error) {
			if g.wait() == 0 {
				return "", blocked
			}
			return "data:image/png;base64," + instruction, nil
		},
	})
	ctx := context.Background()
	require.NoError(t, s.UploadLogo(original))

	oldDone := make(chan error, 1)
	go func() {
		_, err := s.Edit(ctx, "old")
		oldDone <- err
	}()
	g.awaitEntered(t, 0)

	require.NoError(t, s.UploadLogo("data:image/png;base64,BBBB"))

	newDone := make(chan error, 1)
	go func() {
		_, err := s.Edit(ctx, "new")
		newDone <- err
	}()
	g.awaitEntered(t, 1)

	close(g.release[0])
	assert.ErrorIs(t, <-oldDone, blocked, "呼び出し元には失敗がそのまま返るのだ")

	st, _ := s.Actions().Get(ActionEdit)
	assert.Equal(t, asset.StatusLoading, st.Status)
	assert.Empty(t, st.Error)

	close(g.release[1])
	require.NoError(t, <-newDone)
	st, _ = s.Actions().Get(ActionEdit)
	assert.Equal(t, asset.StatusSuccess, st.Status)
	assert.Equal(t, "data:image/png;base64,new", s.Image())
	assert.Equal(t, []string{OriginalInstruction, "new"}, instructions(s.History()))
}

func TestSession_StaleFencing(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu    sync.Mutex
		calls int
	)
	s := newSession(t, &fakeGenerator{
		mockup: func(domain.MockupType) (string, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(entered)
				<-release
				return "old", nil
			}
			return "new", nil
		},
	}, WithStaleFencing())
	require.NoError(t, s.UploadLogo(original))

	done := make(chan error, 1)
	go func() { done <- s.GenerateMockup(context.Background(), domain.MockupToteBag, nil) }()

	// 1 回目が呼び出し中になってから 2 回目を始めるのだ
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("first call did not start")
	}

	require.NoError(t, s.GenerateMockup(context.Background(), domain.MockupToteBag, nil))
	close(release)
	require.NoError(t, <-done)

	st, _ := s.Mockups().Get(string(domain.MockupToteBag))
	assert.Equal(t, "new", st.Value)
}

func instructions(history []EditEntry) []string {
	out := make([]string, len(history))
	for i, e := range history {
		out[i] = e.Instruction
	}
	return out
}
