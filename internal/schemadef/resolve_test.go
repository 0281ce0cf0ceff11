package schemadef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveMessage(t *testing.T) {
	file, err := Parse(`Point(x: Int, y: Int)`)
	require.NoError(t, err)

	fetched, err := Resolve(file)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	require.NotNil(t, fetched[0].Message)

	mt := fetched[0].Message
	require.Equal(t, "Point", mt.Name)
	require.Len(t, mt.Columns, 2)
	require.Equal(t, "x", mt.Columns[0].Name)
	require.Equal(t, "y", mt.Columns[1].Name)
}

func TestResolveMessageDependency(t *testing.T) {
	file, err := Parse(`Row(len: Unsigned, data: String(len))`)
	require.NoError(t, err)

	fetched, err := Resolve(file)
	require.NoError(t, err)

	deps := fetched[0].Message.Columns[1].Dependencies
	require.Equal(t, []int{0}, deps)
}

func TestResolveEnum(t *testing.T) {
	file, err := Parse(`Shape(sides: Unsigned | Circle: Float, Square: Float)`)
	require.NoError(t, err)

	fetched, err := Resolve(file)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	require.NotNil(t, fetched[0].Enum)

	et := fetched[0].Enum
	require.Len(t, et.Dependencies, 1)
	require.Equal(t, "sides", et.Dependencies[0].Name)
	require.Len(t, et.Variants, 2)
	require.Equal(t, "Circle", et.Variants[0].Name)
	require.Equal(t, "Square", et.Variants[1].Name)
}

func TestResolveRejectsUnknownType(t *testing.T) {
	file, err := Parse(`Bad(x: Nonsense)`)
	require.NoError(t, err)

	_, err = Resolve(file)
	require.Error(t, err)
}

func TestResolveRejectsDuplicateTypeName(t *testing.T) {
	file, err := Parse(`Point(x: Int)
Point(y: Int)`)
	require.NoError(t, err)

	_, err = Resolve(file)
	require.Error(t, err)
}

func TestResolveRejectsForwardReference(t *testing.T) {
	file, err := Parse(`A(b: B)
B(x: Int)`)
	require.NoError(t, err)

	_, err = Resolve(file)
	require.Error(t, err)
}
