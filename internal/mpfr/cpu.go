package mpfr

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUFeatures describes the processor capabilities relevant to kernel
// selection.
type CPUFeatures struct {
	Arch string
	// WideMul is set when the architecture multiplies two words into a
	// double word in one instruction, which math/bits.Mul64 lowers to.
	WideMul bool
	BMI2    bool // MULX
	ADX     bool // ADCX/ADOX
	AVX2    bool
	ASIMD   bool
}

// wideMulArch lists the GOARCH values with a native 64×64→128 multiply.
var wideMulArch = map[string]bool{
	"amd64":    true,
	"arm64":    true,
	"ppc64":    true,
	"ppc64le":  true,
	"s390x":    true,
	"riscv64":  true,
	"loong64":  true,
	"mips64":   true,
	"mips64le": true,
}

// GetCPUFeatures reports the features of the running processor.
func GetCPUFeatures() CPUFeatures {
	return CPUFeatures{
		Arch:    runtime.GOARCH,
		WideMul: wideMulArch[runtime.GOARCH],
		BMI2:    cpu.X86.HasBMI2,
		ADX:     cpu.X86.HasADX,
		AVX2:    cpu.X86.HasAVX2,
		ASIMD:   cpu.ARM64.HasASIMD,
	}
}

func (f CPUFeatures) String() string {
	var parts []string
	add := func(ok bool, name string) {
		if ok {
			parts = append(parts, name)
		}
	}
	add(f.WideMul, "mul128")
	add(f.BMI2, "bmi2")
	add(f.ADX, "adx")
	add(f.AVX2, "avx2")
	add(f.ASIMD, "asimd")
	if len(parts) == 0 {
		return f.Arch + " (none)"
	}
	return f.Arch + " (" + strings.Join(parts, ", ") + ")"
}
