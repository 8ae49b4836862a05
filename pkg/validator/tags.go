package validator

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/nyaruka/phonenumbers"
)

// asciiPunctuation ASCII 标点集合（与 C locale 的 ispunct 一致）
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	// emailPattern local-part@domain.tld，domain 标签只允许字母数字和连字符，TLD 至少两个字母
	emailPattern = regexp.MustCompile(`^[\w.%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)

	// phoneCharset 一个前导 +，其余只能是数字、空格、连字符和括号
	phoneCharset = regexp.MustCompile(`^\+[0-9 ()-]+$`)

	// vinPattern 17 位字母数字，不含 I、O、Q
	vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
)

// customTags 引擎构造时注册的自定义标签
// notblank 把纯空白字符串也视为空
var customTags = map[string]validator.Func{
	"notblank":     validators.NotBlank,
	"nopunct":      stringTag(hasNoPunct),
	"nodigit":      stringTag(hasNoDigit),
	"strict_email": stringTag(emailPattern.MatchString),
	"phone":        stringTag(isPossiblePhone),
	"vin":          stringTag(vinPattern.MatchString),
}

// stringTag 把字符串谓词包装为标签函数，非字符串字段一律不通过
func stringTag(pred func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return pred(field.String())
	}
}

// IsPunct ASCII 标点或 Unicode 标点
func IsPunct(r rune) bool {
	return strings.ContainsRune(asciiPunctuation, r) || unicode.IsPunct(r)
}

func hasNoPunct(s string) bool {
	return strings.IndexFunc(s, IsPunct) < 0
}

func hasNoDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) < 0
}

// isPossiblePhone 带国家码的号码能否解析且长度可能成立
// phonenumbers 会容忍字母（按键盘映射）和多余的 +，先按字符集过滤
func isPossiblePhone(s string) bool {
	if !phoneCharset.MatchString(s) {
		return false
	}
	num, err := phonenumbers.Parse(s, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(num)
}
