package bot

// Replies holds the fixed texts sent when something cannot be summarised.
type Replies struct {
	DownloadFailed string `toml:"download_failed"`
	OCRFailed      string `toml:"ocr_failed"`
	StoreFailed    string `toml:"store_failed"`
	InvalidSet     string `toml:"invalid_set"`
	Saved          string `toml:"saved"`
	TargetsTitle   string `toml:"targets_title"`
	NoTargets      string `toml:"no_targets"`
	Help           string `toml:"help"`
}

// DefaultReplies returns the Thai replies.
func DefaultReplies() Replies {
	return Replies{
		DownloadFailed: "ขออภัย ไม่สามารถดาวน์โหลดรูปภาพได้ กรุณาส่งรูปใหม่อีกครั้ง",
		OCRFailed:      "ขออภัย ไม่สามารถอ่านข้อความจากรูปภาพได้ กรุณาลองใหม่อีกครั้ง",
		StoreFailed:    "ขออภัย ระบบเป้ายอดขายขัดข้อง กรุณาลองใหม่ภายหลัง",
		InvalidSet:     "รูปแบบคำสั่งไม่ถูกต้อง ตัวอย่าง: SET HW=50000 DW=30000",
		Saved:          "บันทึกเป้ายอดขายเรียบร้อย",
		TargetsTitle:   "เป้ายอดขายปัจจุบัน",
		NoTargets:      "ยังไม่มีการตั้งเป้ายอดขาย",
		Help:           "ส่งรูปตารางยอดขายเพื่อรับสรุปยอด หรือใช้คำสั่ง:",
	}
}

func (r Replies) withDefaults() Replies {
	d := DefaultReplies()
	pick := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	pick(&r.DownloadFailed, d.DownloadFailed)
	pick(&r.OCRFailed, d.OCRFailed)
	pick(&r.StoreFailed, d.StoreFailed)
	pick(&r.InvalidSet, d.InvalidSet)
	pick(&r.Saved, d.Saved)
	pick(&r.TargetsTitle, d.TargetsTitle)
	pick(&r.NoTargets, d.NoTargets)
	pick(&r.Help, d.Help)
	return r
}
