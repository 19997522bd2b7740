//go:generate mockgen -source=kernel.go -destination=mocks/mock_kernel.go -package=mocks

package mpfr

import (
	"fmt"
	"math/bits"
	"sort"
	"sync"
)

// Kernel is one implementation of the single-word operations. Every kernel
// produces identical results; they differ in how the word arithmetic is
// carried out.
type Kernel interface {
	// Name returns the registry name of the kernel.
	Name() string
	// Add sets out to a+b rounded to prec bits under mode.
	Add(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error)
	// Mul sets out to a×b rounded to prec bits under mode.
	Mul(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error)
}

// KernelFactory builds a kernel bound to an exponent range.
type KernelFactory func(rng Range) Kernel

// Auto is the kernel name that asks Select to detect the hardware.
const Auto = "auto"

var (
	registryMu sync.RWMutex
	registry   = map[string]KernelFactory{}
)

// register adds a kernel factory. It is only called from init functions.
func register(name string, f KernelFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("mpfr: kernel registered twice: " + name)
	}
	registry[name] = f
}

func init() {
	register("bits", func(rng Range) Kernel {
		return &wordKernel{name: "bits", mulWW: bits.Mul64, rng: rng}
	})
	register("portable", func(rng Range) Kernel {
		return &wordKernel{name: "portable", mulWW: mulHalfWords, rng: rng}
	})
	register("bigfloat", func(rng Range) Kernel {
		return &bigKernel{rng: rng}
	})
}

// Kernels returns the registered kernel names in sorted order.
func Kernels() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the kernel registered under name, bound to rng. The empty
// name and Auto select the kernel Detect recommends.
func Select(name string, rng Range) (Kernel, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if name == "" || name == Auto {
		name = Detect()
	}
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownKernel, name, Kernels())
	}
	return f(rng), nil
}

// Detect names the kernel best suited to the running processor.
func Detect() string {
	if GetCPUFeatures().WideMul {
		return "bits"
	}
	return "portable"
}

// Default returns the detected kernel over DefaultRange. The selection runs
// once per process.
var Default = sync.OnceValue(func() Kernel {
	k, err := Select(Auto, DefaultRange)
	if err != nil {
		panic(err)
	}
	return k
})

// Add1sp1 sets out to a+b rounded to prec bits under mode using the default
// kernel.
func Add1sp1(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	return Default().Add(out, a, b, mode, prec)
}

// Sub1sp1 sets out to a-b rounded to prec bits under mode using the default
// kernel.
func Sub1sp1(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	return Sub(Default(), out, a, b, mode, prec)
}

// Mul1 sets out to a×b rounded to prec bits under mode using the default
// kernel.
func Mul1(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	return Default().Mul(out, a, b, mode, prec)
}

// subtracter is implemented by the kernels of this package, which subtract
// by flipping the sign of b inside the addition.
type subtracter interface {
	sub(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error)
}

// Sub computes a-b with k. b is not modified. Kernels from other packages
// are handed a negated copy of b.
func Sub(k Kernel, out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	if s, ok := k.(subtracter); ok {
		return s.sub(out, a, b, mode, prec)
	}
	if b == nil {
		return 0, errOperand("nil operand")
	}
	return k.Add(out, a, negated(b), mode, prec)
}

// wordKernel runs the native word algorithms with a pluggable word product.
type wordKernel struct {
	name  string
	mulWW mulFunc
	rng   Range
}

func (k *wordKernel) Name() string { return k.name }

func (k *wordKernel) Add(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	return k.add(out, a, b, 1, mode, prec)
}

func (k *wordKernel) sub(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	return k.add(out, a, b, -1, mode, prec)
}

// add computes a + bDir·b. bDir is +1 for addition and -1 for subtraction.
func (k *wordKernel) add(out, a, b *Float, bDir int32, mode RoundingMode, prec uint) (Ternary, error) {
	if err := checkArgs(out, a, b, mode, prec, k.rng); err != nil {
		return 0, err
	}
	bSign := b.Sign * bDir
	if a.IsSingular() || b.IsSingular() {
		return addSpecial(out, a, b, bSign, mode, prec, k.rng)
	}
	return add1sp1(a, b, bSign, mode, prec).commit("add", out, prec, k.rng)
}

func (k *wordKernel) Mul(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	if err := checkArgs(out, a, b, mode, prec, k.rng); err != nil {
		return 0, err
	}
	if a.IsSingular() || b.IsSingular() {
		return mulSpecial(out, a, b, prec)
	}
	return mul1(k.mulWW, a, b, mode, prec).commit("mul", out, prec, k.rng)
}

// mulHalfWords is the schoolbook product over 32-bit halves, for targets
// without a 64×64→128 multiply instruction.
func mulHalfWords(x, y Word) (hi, lo Word) {
	const mask32 = 1<<32 - 1
	x0, x1 := x&mask32, x>>32
	y0, y1 := y&mask32, y>>32
	w0 := x0 * y0
	t := x1*y0 + w0>>32
	w1 := t&mask32 + x0*y1
	hi = x1*y1 + t>>32 + w1>>32
	lo = x * y
	return hi, lo
}
