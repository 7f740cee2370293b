package shortener

// Identity 由传输层的身份模块解析出的调用者，零值表示匿名
type Identity struct {
	UserID string
}

func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// OwnerRef 要记录的归属者 id，匿名时为 nil
func (i *Identity) OwnerRef() *string {
	if i == nil || i.Anonymous() {
		return nil
	}
	id := i.UserID
	return &id
}
