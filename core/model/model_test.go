package model_test

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/anoideaopen/litbridge/core/codec"
	"github.com/anoideaopen/litbridge/core/descriptor"
	"github.com/anoideaopen/litbridge/core/element"
	"github.com/anoideaopen/litbridge/core/model"
	"github.com/anoideaopen/litbridge/core/owner"
	"github.com/anoideaopen/litbridge/core/routing"
	"github.com/anoideaopen/litbridge/mock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

type BearPoker struct {
	GetText      func() (string, error)                                              `lit:"property,default=,raw"`
	SetText      func(text string) error                                             `lit:"property,default=,raw"`
	GetPokeCount func(ctx context.Context) (int, error)                              `lit:"property,default=0"`
	PokeIt       func() error                                                        `lit:"function"`
	PokeHard     func(ctx context.Context, times int) (element.PendingResult, error) `lit:"function,name=pokeIt"`
	Equals       func(other any) (bool, error)                                       `lit:"property"`
	HashCode     func() (int, error)                                                 `lit:"function"`

	Label string
}

type Mood string

func (m Mood) MarshalText() ([]byte, error) { return []byte(m), nil }

func (m *Mood) UnmarshalText(b []byte) error {
	*m = Mood(b)
	return nil
}

func newDispatcher(opts ...routing.Option) *routing.Dispatcher {
	log := logrus.New()
	log.SetOutput(io.Discard)

	return model.NewDispatcher(codec.Defaults().With(codec.Text[Mood]()), append([]routing.Option{routing.WithLogger(log)}, opts...)...)
}

func TestBearPokerText(t *testing.T) {
	el := mock.NewElement().Seed("text", structpb.NewStringValue("from peer"))
	c := model.NewComponent[BearPoker](el, newDispatcher())

	bear, err := c.Model()
	require.NoError(t, err)

	text, err := bear.GetText()
	require.NoError(t, err)
	assert.Equal(t, "from peer", text)

	require.NoError(t, bear.SetText("hello"))
	text, err = bear.GetText()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	for _, r := range el.Reads() {
		assert.False(t, r.WithDefault, "raw reads never pass a default")
	}
	require.Len(t, el.Writes(), 1)
	assert.Equal(t, "text", el.Writes()[0].Name)
}

func TestBearPokerPokeIt(t *testing.T) {
	el := mock.NewElement().Handle("pokeIt", func(args []*structpb.Value) (*structpb.Value, error) {
		return structpb.NewNumberValue(float64(len(args))), nil
	})
	bear, err := model.NewComponent[BearPoker](el, newDispatcher()).Model()
	require.NoError(t, err)

	require.NoError(t, bear.PokeIt())
	calls := el.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "pokeIt", calls[0].Name)
	assert.Empty(t, calls[0].Args)

	pending, err := bear.PokeHard(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, pending)
	v, err := pending.Await(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1, v.GetNumberValue(), 0)
	assert.Equal(t, []any{3}, el.Calls()[1].Args)
}

func TestBearPokerDefaults(t *testing.T) {
	el := mock.NewElement()
	bear, err := model.NewComponent[BearPoker](el, newDispatcher()).Model()
	require.NoError(t, err)

	count, err := bear.GetPokeCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	reads := el.Reads()
	require.Len(t, reads, 1)
	assert.Equal(t, "pokeCount", reads[0].Name)
	assert.True(t, reads[0].WithDefault)
}

func TestSentinelsNeverDispatch(t *testing.T) {
	el := mock.NewElement()
	bear, err := model.NewComponent[BearPoker](el, newDispatcher()).Model()
	require.NoError(t, err)

	eq, err := bear.Equals(bear)
	require.NoError(t, err)
	assert.False(t, eq)

	hash, err := bear.HashCode()
	require.NoError(t, err)
	assert.Equal(t, 0, hash)

	assert.False(t, el.Touched())
}

func TestComponentsOwnTheirInstances(t *testing.T) {
	testCases := []struct {
		name   string
		owners owner.Registry
	}{
		{name: "back references", owners: owner.BackRefs{}},
		{name: "table", owners: owner.NewTable()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDispatcher(routing.WithOwners(tc.owners))
			first := model.NewComponent[BearPoker](mock.NewElement(), d)
			second := model.NewComponent[BearPoker](mock.NewElement(), d)

			m1, err := first.Model()
			require.NoError(t, err)
			m2, err := second.Model()
			require.NoError(t, err)
			require.NotSame(t, m1, m2)

			again, err := first.Model()
			require.NoError(t, err)
			require.Same(t, m1, again)

			o1, err := d.Owners().Get(first.Instance())
			require.NoError(t, err)
			o2, err := d.Owners().Get(second.Instance())
			require.NoError(t, err)

			assert.Same(t, first, o1)
			assert.Same(t, second, o2)
			assert.NotSame(t, first.Instance(), second.Instance())
		})
	}
}

func TestRelease(t *testing.T) {
	table := owner.NewTable()
	c := model.NewComponent[BearPoker](mock.NewElement(), newDispatcher(routing.WithOwners(table)))

	bear, err := c.Model()
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	c.Release()
	assert.Equal(t, 0, table.Len())

	_, err = bear.GetText()
	require.ErrorIs(t, err, owner.ErrNoOwner)
}

type Broken struct {
	Get func() string `lit:"property"`
}

type BadTag struct {
	Get func() (string, error) `lit:"property,colour=red"`
}

type Lonely struct {
	Get func() (string, error) `lit:"deprecated"`
}

type Pointless struct {
	Name string `lit:"property"`
}

func TestContractErrors(t *testing.T) {
	d := newDispatcher()

	_, err := model.NewComponent[int](mock.NewElement(), d).Model()
	require.ErrorIs(t, err, model.ErrUnsupportedContract)

	_, err = model.NewComponent[Broken](mock.NewElement(), d).Model()
	require.ErrorIs(t, err, model.ErrUnsupportedSignature)

	_, err = model.NewComponent[Pointless](mock.NewElement(), d).Model()
	require.ErrorIs(t, err, model.ErrUnsupportedSignature)

	_, err = model.NewComponent[BadTag](mock.NewElement(), d).Model()
	require.ErrorIs(t, err, descriptor.ErrInvalidTag)

	_, err = model.Bind(BearPoker{}, d)
	require.ErrorIs(t, err, model.ErrUnsupportedContract)

	lonely, err := model.NewComponent[Lonely](mock.NewElement(), d).Model()
	require.NoError(t, err)
	_, err = lonely.Get()
	require.ErrorIs(t, err, routing.ErrMethodInvalid)
	assert.Contains(t, err.Error(), "'Get'")
}

type Moody struct {
	GetMood func() (Mood, error)  `lit:"property,default=calm"`
	SetMood func(m Mood) error    `lit:"property"`
	GetSize func() (int32, error) `lit:"property"`
}

func TestCodecTypes(t *testing.T) {
	el := mock.NewElement()
	moody, err := model.NewComponent[Moody](el, newDispatcher()).Model()
	require.NoError(t, err)

	mood, err := moody.GetMood()
	require.NoError(t, err)
	assert.Equal(t, Mood("calm"), mood)

	require.NoError(t, moody.SetMood("grumpy"))
	mood, err = moody.GetMood()
	require.NoError(t, err)
	assert.Equal(t, Mood("grumpy"), mood)

	_, err = moody.GetSize()
	require.ErrorIs(t, err, routing.ErrUnsupportedType)
	assert.Len(t, el.Reads(), 2)
}

func TestTransportErrorPassesThrough(t *testing.T) {
	errGone := errors.New("peer is gone")

	el := mock.NewElement().FailWith(errGone)
	bear, err := model.NewComponent[BearPoker](el, newDispatcher()).Model()
	require.NoError(t, err)

	_, err = bear.GetText()
	require.Same(t, errGone, err)
	require.Same(t, errGone, bear.PokeIt())
}

func TestMethods(t *testing.T) {
	methods, err := model.Methods(reflect.TypeFor[BearPoker]())
	require.NoError(t, err)
	require.Len(t, methods, 7)

	assert.Equal(t, "GetPokeCount() int", methods[2].String())
	assert.Equal(t, "PokeHard(int) element.PendingResult", methods[4].String())

	d := newDispatcher()
	for _, m := range methods {
		if m.Name == routing.MethodEquals || m.Name == routing.MethodHashCode {
			continue
		}
		_, err := d.Resolve(m)
		require.NoError(t, err, m.Name)
	}
}
