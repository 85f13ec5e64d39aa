package common

const KindImage = "image"
const KindAudio = "audio"
