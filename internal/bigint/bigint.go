// Package bigint 实现基于字节数组的无符号大整数进制转换。
//
// 输入按大端字节解释为一个非负整数，通过反复除以目标进制得到各位数字。
// 所有函数只分配与输入长度成正比的临时缓冲区，没有共享状态。
package bigint

// ToBase 将大端字节整数转换为 base 进制的数字序列（最高位在前）。
// 数值为 0 时返回空切片，前导零字节不产生数字。
func ToBase(b []byte, base int) []byte {
	if base < 2 || base > 256 {
		panic("bigint: base out of range")
	}
	num := trim(b)
	var digits []byte
	for len(num) > 0 {
		q := make([]byte, 0, len(num))
		rem := 0
		for _, d := range num {
			acc := rem<<8 | int(d)
			qd := acc / base
			rem = acc % base
			if len(q) > 0 || qd != 0 {
				q = append(q, byte(qd))
			}
		}
		digits = append(digits, byte(rem))
		num = q
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return digits
}

// FromBase 将 base 进制数字序列还原为最短的大端字节整数。
// 数值为 0 时返回空切片。调用方需保证每个数字都小于 base。
func FromBase(digits []byte, base int) []byte {
	if base < 2 || base > 256 {
		panic("bigint: base out of range")
	}
	var out []byte
	for _, d := range digits {
		carry := int(d)
		for i := len(out) - 1; i >= 0; i-- {
			v := int(out[i])*base + carry
			out[i] = byte(v)
			carry = v >> 8
		}
		for carry > 0 {
			out = append([]byte{byte(carry)}, out...)
			carry >>= 8
		}
	}
	return out
}

// FitTo 将整数左侧补零到恰好 n 字节。数值放不下时返回 false。
func FitTo(b []byte, n int) ([]byte, bool) {
	b = trim(b)
	if len(b) > n {
		return nil, false
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out, true
}

// IsZero 判断整数是否为 0
func IsZero(b []byte) bool {
	return len(trim(b)) == 0
}

func trim(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}
