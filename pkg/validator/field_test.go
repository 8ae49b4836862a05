package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(reasons []Reason) []Code {
	out := make([]Code, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, r.Code)
	}
	return out
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		valid bool
		codes []Code
	}{
		{name: "最短合法", raw: "abcdef", valid: true},
		{name: "最长合法", raw: strings.Repeat("a", 20), valid: true},
		{name: "允许数字", raw: "driver2024", valid: true},
		{name: "多字节字符按字符计数", raw: "жёлтыйавто", valid: true},
		{name: "太短", raw: "ab", codes: []Code{CodeTooShort}},
		{name: "空串", raw: "", codes: []Code{CodeTooShort}},
		{name: "纯空白与空串一致", raw: "        ", codes: []Code{CodeTooShort}},
		{name: "太长", raw: strings.Repeat("a", 21), codes: []Code{CodeTooLong}},
		{name: "含标点", raw: "john.doe", codes: []Code{CodePatternMismatch}},
		{name: "下划线也是标点", raw: "john_doe", codes: []Code{CodePatternMismatch}},
		{name: "太短且含标点", raw: "a!", codes: []Code{CodeTooShort, CodePatternMismatch}},
		{name: "类型错误", raw: 123456, codes: []Code{CodeWrongType}},
		{name: "nil", raw: nil, codes: []Code{CodeEmpty}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ValidateUsername(tt.raw)
			assert.Equal(t, tt.valid, out.IsValid())
			if tt.valid {
				assert.Equal(t, tt.raw, out.Value())
				return
			}
			assert.Equal(t, tt.codes, codes(out.Reasons()))
			assert.Empty(t, out.Value())
		})
	}
}

func TestValidateUsername_Property(t *testing.T) {
	// 长度 [6,20]、不含标点和数字的字符串总是合法
	letters := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZäöüß")
	for n := 6; n <= 20; n++ {
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(letters[(i*7+n)%len(letters)])
		}
		s := b.String()
		out := ValidateUsername(s)
		require.True(t, out.IsValid(), "len=%d %q: %v", n, s, out.Reasons())
		assert.Equal(t, s, out.Value())
	}

	// 任意一个 ASCII 标点都会导致失败
	for _, p := range asciiPunctuation {
		s := "abcdef" + string(p)
		assert.False(t, ValidateUsername(s).IsValid(), "%q should be rejected", s)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		codes []Code
	}{
		{name: "合法", raw: "Jade"},
		{name: "保留大小写", raw: "McDONALD"},
		{name: "空", raw: "", codes: []Code{CodeEmpty}},
		{name: "纯空白", raw: "   ", codes: []Code{CodeEmpty}},
		{name: "制表与换行", raw: "\t\n", codes: []Code{CodeEmpty}},
		{name: "超长", raw: strings.Repeat("x", 21), codes: []Code{CodeTooLong}},
		{name: "含数字", raw: "Jade2", codes: []Code{CodePatternMismatch}},
		{name: "含标点", raw: "O'Neil", codes: []Code{CodePatternMismatch}},
		{name: "超长且含数字", raw: strings.Repeat("x", 20) + "1", codes: []Code{CodeTooLong, CodePatternMismatch}},
		{name: "布尔类型", raw: true, codes: []Code{CodeWrongType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ValidateName(tt.raw)
			if len(tt.codes) == 0 {
				require.True(t, out.IsValid(), out.Reasons())
				assert.Equal(t, tt.raw, out.Value())
				return
			}
			assert.Equal(t, tt.codes, codes(out.Reasons()))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	out := ValidateEmail("user@example.com")
	require.True(t, out.IsValid())
	assert.Equal(t, "user@example.com", out.Value())

	out = ValidateEmail("user@@example")
	require.False(t, out.IsValid())
	assert.Equal(t, []Code{CodePatternMismatch}, codes(out.Reasons()))

	invalid := []string{
		"not-an-email",
		"user@example",
		"user example@mail.com",
		"user@exam ple.com",
		"@example.com",
		"user@.com",
		// 旧正则中未转义的点会放过这种写法
		"user@examplexcom",
		"a@b.12",
		"a@b_c.com",
		"a@b.c_m",
	}
	for _, s := range invalid {
		assert.True(t, ValidateEmail(s).HasCode(CodePatternMismatch), s)
	}

	valid := []string{"first.last@sub.example.co.uk", "a-b+tag@mail-server.io", "utEeMFTeli@yahoo.com"}
	for _, s := range valid {
		assert.True(t, ValidateEmail(s).IsValid(), s)
	}

	assert.Equal(t, []Code{CodeEmpty}, codes(ValidateEmail("").Reasons()))
	assert.Equal(t, []Code{CodeEmpty}, codes(ValidateEmail("  ").Reasons()))
}

func TestValidatePhoneNumber(t *testing.T) {
	for _, s := range []string{"+37067673346", "+380501234567", "+14155552671"} {
		out := ValidatePhoneNumber(s)
		assert.True(t, out.IsValid(), "%s: %v", s, out.Reasons())
		assert.Equal(t, s, out.Value())
	}

	assert.True(t, ValidatePhoneNumber("0501234567").HasCode(CodePatternMismatch), "missing country code")
	assert.True(t, ValidatePhoneNumber("test").HasCode(CodePatternMismatch))
	assert.True(t, ValidatePhoneNumber("+3706").HasCode(CodePatternMismatch), "too short to be possible")
	for _, s := range []string{"++14155552671", "+1-800-FLOWERS", "+1 415 555 2671x", "1+4155552671", "+1+4155552671"} {
		assert.True(t, ValidatePhoneNumber(s).HasCode(CodePatternMismatch), s)
	}
	for _, s := range []string{"+1 (415) 555-2671", "+370 676 73346"} {
		assert.True(t, ValidatePhoneNumber(s).IsValid(), s)
	}
	assert.Equal(t, []Code{CodeEmpty}, codes(ValidatePhoneNumber(" ").Reasons()))
	assert.Equal(t, []Code{CodeEmpty}, codes(ValidatePhoneNumber("").Reasons()))
	assert.Equal(t, []Code{CodeWrongType}, codes(ValidatePhoneNumber(37067673346).Reasons()))
}

func TestValidateGender(t *testing.T) {
	for _, g := range Genders {
		out := ValidateGender(g)
		require.True(t, out.IsValid())
		// 幂等：再次校验结果不变
		again := ValidateGender(out.Value())
		assert.Equal(t, out, again)
	}

	for _, g := range []string{"Male", "FEMALE", "n/a", "x", " male"} {
		out := ValidateGender(g)
		assert.Equal(t, []Code{CodeNotInEnumeration}, codes(out.Reasons()), g)
	}

	assert.Equal(t, []Code{CodeEmpty}, codes(ValidateGender("").Reasons()))
}

func TestValidateZipCode(t *testing.T) {
	for _, z := range []string{"00000", "12345", "99999"} {
		out := ValidateZipCode(z)
		require.True(t, out.IsValid(), z)
		assert.Equal(t, z, out.Value())
	}

	tests := map[string][]Code{
		"1234":   {CodeTooShort},
		"123456": {CodeTooLong},
		"12a45":  {CodePatternMismatch},
		"-1234":  {CodePatternMismatch},
		"1a":     {CodeTooShort, CodePatternMismatch},
		"":       {CodeEmpty},
	}
	for z, want := range tests {
		assert.Equal(t, want, codes(ValidateZipCode(z).Reasons()), z)
	}

	assert.Equal(t, []Code{CodeWrongType}, codes(ValidateZipCode(12345).Reasons()))
}

func TestValidateRegionAndStreet(t *testing.T) {
	assert.True(t, ValidateStreetAddress("1 Main St").IsValid())
	assert.True(t, ValidateStreetAddress(strings.Repeat("s", 255)).IsValid())
	assert.Equal(t, []Code{CodeTooLong}, codes(ValidateStreetAddress(strings.Repeat("s", 256)).Reasons()))
	assert.Equal(t, []Code{CodeEmpty}, codes(ValidateStreetAddress("").Reasons()))

	for _, fn := range []func(any) Outcome[string]{ValidateState, ValidateCity, ValidateCountry} {
		assert.True(t, fn("Vilnius County").IsValid())
		assert.Equal(t, []Code{CodeTooLong}, codes(fn(strings.Repeat("s", 41)).Reasons()))
		assert.Equal(t, []Code{CodeEmpty}, codes(fn("").Reasons()))
		assert.Equal(t, []Code{CodeEmpty}, codes(fn("  \t").Reasons()))
	}
}

func TestValidate_BlankStrings(t *testing.T) {
	// 必填的字符串类别：纯空白一律按空值报告
	required := []FieldKind{
		KindName, KindEmail, KindPhoneNumber, KindGender, KindStreetAddress,
		KindState, KindZipCode, KindCity, KindCountry, KindMaker, KindModel,
		KindCondition, KindFuel, KindGearbox, KindColor, KindVIN,
	}
	for _, kind := range required {
		out := Validate(kind, " \t ")
		assert.Equal(t, []Code{CodeEmpty}, codes(out.Reasons()), kind.String())
	}

	assert.Equal(t, []Code{CodeTooShort}, codes(ValidateUsername("      ").Reasons()))
	assert.True(t, ValidateText("  ").IsValid(), "optional free text may be blank")
}

func TestValidate_Idempotent(t *testing.T) {
	samples := map[FieldKind][]any{
		KindName:          {"Jade", "", "x1"},
		KindUsername:      {"jadejade", "ab"},
		KindEmail:         {"user@example.com", "user@@example"},
		KindPhoneNumber:   {"+37067673346", "123"},
		KindGender:        {"other", "robot"},
		KindStreetAddress: {"1 Main St"},
		KindState:         {"Texas"},
		KindZipCode:       {"12345", "1234"},
		KindCity:          {"Metropolis"},
		KindCountry:       {"US"},
		KindMaker:         {"Toyota", ""},
		KindModel:         {"Corolla"},
		KindPrice:         {"1500", 1500, -1},
		KindPowerOutput:   {"110", 85},
		KindMileage:       {0, "120000"},
		KindCondition:     {"Used", "Broken"},
		KindFuel:          {"Diesel", "Coal"},
		KindGearbox:       {"Manual"},
		KindColor:         {"Black"},
		KindVIN:           {"5yj3e1ea1nf123456", "INVALID"},
		KindEngineVolume:  {"1.6", 0.0},
		KindConsumption:   {"5.4", 7.1},
		KindDate:          {"2020-05-01"},
		KindIdentifier:    {"42", int64(7)},
		KindText:          {"Full service history", ""},
		KindCount:         {"5", 4},
	}

	for _, kind := range Kinds() {
		valid := false
		for _, raw := range samples[kind] {
			valid = valid || Validate(kind, raw).IsValid()
		}
		require.True(t, valid, "no valid sample for %s", kind)
	}

	for kind, raws := range samples {
		for _, raw := range raws {
			out := Validate(kind, raw)
			if !out.IsValid() {
				continue
			}
			again := Validate(kind, out.Value())
			require.True(t, again.IsValid(), "%s(%v)", kind, raw)
			assert.Equal(t, out.Value(), again.Value(), "%s(%v)", kind, raw)
		}
	}
}

func TestValidate_Dispatch(t *testing.T) {
	for _, kind := range Kinds() {
		assert.NotPanics(t, func() { Validate(kind, "x") }, kind.String())
	}

	assert.PanicsWithValue(t, "validator: unknown field kind kind(999)", func() {
		Validate(FieldKind(999), "x")
	})
	assert.PanicsWithValue(t, "validator: unknown field kind kind(0)", func() {
		Validate(FieldKind(0), "x")
	})

	// 每个已登记类别都必须有分发项
	for _, kind := range Kinds() {
		require.True(t, kind.Known(), kind.String())
		_, ok := dispatch[kind]
		assert.True(t, ok, kind.String())
	}
}

func TestParseFieldKind(t *testing.T) {
	for _, kind := range Kinds() {
		parsed, ok := ParseFieldKind(kind.String())
		require.True(t, ok, kind.String())
		assert.Equal(t, kind, parsed)
	}

	_, ok := ParseFieldKind("password")
	assert.False(t, ok)
	assert.False(t, FieldKind(0).Known())
}

func TestEngine_ConcurrentUse(t *testing.T) {
	done := make(chan bool)
	for i := 0; i < 16; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				if !ValidateEmail("user@example.com").IsValid() {
					done <- false
					return
				}
			}
			done <- true
		}()
	}
	for i := 0; i < 16; i++ {
		assert.True(t, <-done)
	}
}
