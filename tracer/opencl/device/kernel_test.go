package device

import (
	"testing"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

func TestKernelExec1D(t *testing.T) {
	dev := createTestDevice(t)
	defer dev.Close()

	kernel, err := dev.Kernel("square")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	dataSize := 32
	in := make([]int32, dataSize)
	out := make([]int32, dataSize)
	for i := range in {
		in[i] = int32(i)
	}

	bufIn := dev.Buffer("in")
	defer bufIn.Release()
	if err = bufIn.AllocateAndWriteData(in, cl.MEM_READ_ONLY); err != nil {
		t.Fatal(err)
	}

	bufOut := dev.Buffer("out")
	defer bufOut.Release()
	if err = bufOut.Allocate(dataSize*4, cl.MEM_READ_WRITE); err != nil {
		t.Fatal(err)
	}

	if err = kernel.SetArgs(bufIn, bufOut, uint32(dataSize)); err != nil {
		t.Fatal(err)
	}

	if _, err = kernel.Exec1D(0, dataSize, 0); err != nil {
		t.Fatal(err)
	}

	if err = bufOut.ReadData(0, 0, 0, out); err != nil {
		t.Fatal(err)
	}

	for i := range in {
		if expected := in[i] * in[i]; out[i] != expected {
			t.Fatalf("[elem %d] expected %d; got %d", i, expected, out[i])
		}
	}
}

func TestKernelSetArgsUnsupportedType(t *testing.T) {
	dev := createTestDevice(t)
	defer dev.Close()

	kernel, err := dev.Kernel("square")
	if err != nil {
		t.Fatal(err)
	}
	defer kernel.Release()

	if err = kernel.SetArgs(float64(1)); err == nil {
		t.Fatal("expected an error for an unsupported argument type")
	}
}
